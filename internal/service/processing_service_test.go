package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ladinglens/internal/domain"
	"ladinglens/internal/port"
	"ladinglens/internal/service"
	"ladinglens/mocks"
)

// stubExtractor returns a fixed extraction for every page.
type stubExtractor struct {
	result *domain.DocumentExtraction
	err    error
	calls  int
}

func (s *stubExtractor) Extract(ctx context.Context, text string, allowFallback bool) (*domain.DocumentExtraction, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	cp := *s.result
	return &cp, nil
}

func hblExtraction() *domain.DocumentExtraction {
	bl := "HBL-20260102"
	return &domain.DocumentExtraction{
		DocType:     domain.DocTypeHBL,
		BLNumber:    &bl,
		EmailStatus: domain.EmailStatusUnknown,
	}
}

func longPageText() string {
	return strings.Repeat("BILL OF LADING shipment details ", 10)
}

func preAlertMessage() port.MailMessage {
	return port.MailMessage{
		Meta: domain.SourceMetadata{
			EmailID:            "msg-1",
			Subject:            "Pre-alert HBL-20260102",
			From:               "ops@forwarder.example",
			ReceivedAt:         time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
			AttachmentFilename: "hbl.pdf",
		},
		Status: domain.EmailStatusPreAlert,
		Attachments: []port.AttachmentRef{
			{Filename: "hbl.pdf", AttachmentID: "att-1", MimeType: "application/pdf"},
		},
	}
}

func newPipeline(t *testing.T) (*mocks.MockMailFetcher, *mocks.MockPageConverter, *mocks.MockDocumentRepo, *mocks.MockJobRepo) {
	t.Helper()
	jobRepo := new(mocks.MockJobRepo)
	jobRepo.On("AppendLog", mock.Anything, mock.Anything).Return(nil)
	return new(mocks.MockMailFetcher), new(mocks.MockPageConverter), new(mocks.MockDocumentRepo), jobRepo
}

func TestProcessingService_Run_CreatesDocument(t *testing.T) {
	mail, converter, docRepo, jobRepo := newPipeline(t)

	mail.On("FetchRecent", mock.Anything, 10).Return([]port.MailMessage{preAlertMessage()}, nil)
	mail.On("FetchAttachment", mock.Anything, "msg-1", mock.Anything).Return([]byte("%PDF-1.4"), nil)
	converter.On("Convert", mock.Anything, mock.Anything).Return([]port.DocumentPageText{
		{PageNumber: 1, Text: longPageText()},
	}, nil)
	docRepo.On("ExistsByDedupeKey", mock.Anything, mock.Anything).Return(false, nil)
	docRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(doc *domain.ShipmentDocument) bool {
		return doc.DocType == domain.DocTypeHBL &&
			doc.SourceEmailID == "msg-1" &&
			doc.PageNumber == 1 &&
			doc.EmailStatus == domain.EmailStatusPreAlert
	})).Return(nil)

	engine := &stubExtractor{result: hblExtraction()}
	svc := service.NewProcessingService(mail, converter, engine, docRepo, jobRepo, nil, service.ProcessingConfig{EmailLimit: 10})

	summary, err := svc.Run(context.Background(), uuid.New(), false, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.EmailsProcessed)
	assert.Equal(t, 1, summary.AttachmentsProcessed)
	assert.Equal(t, 1, summary.DocsCreated)
	assert.Equal(t, 0, summary.Errors)
	docRepo.AssertExpectations(t)
}

func TestProcessingService_Run_FetchFailureAborts(t *testing.T) {
	mail, converter, docRepo, jobRepo := newPipeline(t)
	mail.On("FetchRecent", mock.Anything, 10).Return(nil, errors.New("gmail unavailable"))

	svc := service.NewProcessingService(mail, converter, &stubExtractor{result: hblExtraction()}, docRepo, jobRepo, nil, service.ProcessingConfig{EmailLimit: 10})

	summary, err := svc.Run(context.Background(), uuid.New(), false, nil)
	require.Error(t, err)
	assert.Equal(t, 1, summary.Errors)
	converter.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything)
}

func TestProcessingService_Run_UnknownStatusEmailSkipped(t *testing.T) {
	mail, converter, docRepo, jobRepo := newPipeline(t)

	msg := preAlertMessage()
	msg.Status = domain.EmailStatusUnknown
	mail.On("FetchRecent", mock.Anything, 10).Return([]port.MailMessage{msg}, nil)

	svc := service.NewProcessingService(mail, converter, &stubExtractor{result: hblExtraction()}, docRepo, jobRepo, nil, service.ProcessingConfig{EmailLimit: 10})

	summary, err := svc.Run(context.Background(), uuid.New(), false, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.EmailsProcessed)
	assert.Equal(t, 0, summary.AttachmentsProcessed)
	mail.AssertNotCalled(t, "FetchAttachment", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessingService_Run_ShortPageSkipped(t *testing.T) {
	mail, converter, docRepo, jobRepo := newPipeline(t)

	mail.On("FetchRecent", mock.Anything, 10).Return([]port.MailMessage{preAlertMessage()}, nil)
	mail.On("FetchAttachment", mock.Anything, "msg-1", mock.Anything).Return([]byte("%PDF-1.4"), nil)
	converter.On("Convert", mock.Anything, mock.Anything).Return([]port.DocumentPageText{
		{PageNumber: 1, Text: "   \n  "},
	}, nil)

	engine := &stubExtractor{result: hblExtraction()}
	svc := service.NewProcessingService(mail, converter, engine, docRepo, jobRepo, nil, service.ProcessingConfig{EmailLimit: 10})

	summary, err := svc.Run(context.Background(), uuid.New(), false, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.DocsCreated)
	assert.Equal(t, 0, engine.calls)
	docRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestProcessingService_Run_DuplicatePageSkipped(t *testing.T) {
	mail, converter, docRepo, jobRepo := newPipeline(t)

	mail.On("FetchRecent", mock.Anything, 10).Return([]port.MailMessage{preAlertMessage()}, nil)
	mail.On("FetchAttachment", mock.Anything, "msg-1", mock.Anything).Return([]byte("%PDF-1.4"), nil)
	converter.On("Convert", mock.Anything, mock.Anything).Return([]port.DocumentPageText{
		{PageNumber: 1, Text: longPageText()},
	}, nil)
	wantKey := service.GenerateDedupeKey("msg-1", "hbl.pdf", 1)
	docRepo.On("ExistsByDedupeKey", mock.Anything, wantKey).Return(true, nil)

	engine := &stubExtractor{result: hblExtraction()}
	svc := service.NewProcessingService(mail, converter, engine, docRepo, jobRepo, nil, service.ProcessingConfig{EmailLimit: 10})

	summary, err := svc.Run(context.Background(), uuid.New(), false, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.SkippedDuplicates)
	assert.Equal(t, 0, engine.calls)
	docRepo.AssertExpectations(t)
}

func TestProcessingService_Run_SkipDedupeStoresAgain(t *testing.T) {
	mail, converter, docRepo, jobRepo := newPipeline(t)

	mail.On("FetchRecent", mock.Anything, 10).Return([]port.MailMessage{preAlertMessage()}, nil)
	mail.On("FetchAttachment", mock.Anything, "msg-1", mock.Anything).Return([]byte("%PDF-1.4"), nil)
	converter.On("Convert", mock.Anything, mock.Anything).Return([]port.DocumentPageText{
		{PageNumber: 1, Text: longPageText()},
	}, nil)
	baseKey := service.GenerateDedupeKey("msg-1", "hbl.pdf", 1)
	docRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(doc *domain.ShipmentDocument) bool {
		return strings.HasPrefix(doc.DedupeKey, baseKey+"_") && doc.DedupeKey != baseKey
	})).Return(nil)

	svc := service.NewProcessingService(mail, converter, &stubExtractor{result: hblExtraction()}, docRepo, jobRepo, nil, service.ProcessingConfig{EmailLimit: 10})

	summary, err := svc.Run(context.Background(), uuid.New(), true, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.DocsCreated)
	docRepo.AssertNotCalled(t, "ExistsByDedupeKey", mock.Anything, mock.Anything)
	docRepo.AssertExpectations(t)
}

func TestProcessingService_Run_UnknownDocTypeNotStored(t *testing.T) {
	mail, converter, docRepo, jobRepo := newPipeline(t)

	mail.On("FetchRecent", mock.Anything, 10).Return([]port.MailMessage{preAlertMessage()}, nil)
	mail.On("FetchAttachment", mock.Anything, "msg-1", mock.Anything).Return([]byte("%PDF-1.4"), nil)
	converter.On("Convert", mock.Anything, mock.Anything).Return([]port.DocumentPageText{
		{PageNumber: 1, Text: longPageText()},
	}, nil)
	docRepo.On("ExistsByDedupeKey", mock.Anything, mock.Anything).Return(false, nil)

	engine := &stubExtractor{result: &domain.DocumentExtraction{
		DocType:     domain.DocTypeUnknown,
		EmailStatus: domain.EmailStatusUnknown,
	}}
	svc := service.NewProcessingService(mail, converter, engine, docRepo, jobRepo, nil, service.ProcessingConfig{EmailLimit: 10})

	summary, err := svc.Run(context.Background(), uuid.New(), false, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.DocsCreated)
	docRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestProcessingService_Run_ConversionFailureCounted(t *testing.T) {
	mail, converter, docRepo, jobRepo := newPipeline(t)

	mail.On("FetchRecent", mock.Anything, 10).Return([]port.MailMessage{preAlertMessage()}, nil)
	mail.On("FetchAttachment", mock.Anything, "msg-1", mock.Anything).Return([]byte("%PDF-1.4"), nil)
	converter.On("Convert", mock.Anything, mock.Anything).Return(nil, errors.New("converter down"))

	svc := service.NewProcessingService(mail, converter, &stubExtractor{result: hblExtraction()}, docRepo, jobRepo, nil, service.ProcessingConfig{EmailLimit: 10})

	summary, err := svc.Run(context.Background(), uuid.New(), false, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 0, summary.DocsCreated)
}

func TestProcessingService_Run_ArchivesToStorage(t *testing.T) {
	mail, converter, docRepo, jobRepo := newPipeline(t)
	storage := new(mocks.MockObjectStorage)

	mail.On("FetchRecent", mock.Anything, 10).Return([]port.MailMessage{preAlertMessage()}, nil)
	mail.On("FetchAttachment", mock.Anything, "msg-1", mock.Anything).Return([]byte("%PDF-1.4"), nil)
	converter.On("Convert", mock.Anything, mock.Anything).Return([]port.DocumentPageText{
		{PageNumber: 1, Text: longPageText()},
	}, nil)
	docRepo.On("ExistsByDedupeKey", mock.Anything, mock.Anything).Return(false, nil)
	docRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "archive" && in.Key == "emails/msg-1/hbl.pdf" &&
			in.Size == int64(len("%PDF-1.4")) && in.ContentType == "application/pdf"
	})).Return(&port.UploadOutput{Location: "s3://archive/emails/msg-1/hbl.pdf"}, nil)

	svc := service.NewProcessingService(mail, converter, &stubExtractor{result: hblExtraction()}, docRepo, jobRepo, storage,
		service.ProcessingConfig{EmailLimit: 10, ArchiveBucket: "archive"})

	_, err := svc.Run(context.Background(), uuid.New(), false, nil)
	require.NoError(t, err)
	storage.AssertExpectations(t)
}

func TestProcessingService_Run_ProgressEventsEmitted(t *testing.T) {
	mail, converter, docRepo, jobRepo := newPipeline(t)

	mail.On("FetchRecent", mock.Anything, 10).Return([]port.MailMessage{preAlertMessage()}, nil)
	mail.On("FetchAttachment", mock.Anything, "msg-1", mock.Anything).Return([]byte("%PDF-1.4"), nil)
	converter.On("Convert", mock.Anything, mock.Anything).Return([]port.DocumentPageText{
		{PageNumber: 1, Text: longPageText()},
	}, nil)
	docRepo.On("ExistsByDedupeKey", mock.Anything, mock.Anything).Return(false, nil)
	docRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	var events []service.ProcessingEvent
	svc := service.NewProcessingService(mail, converter, &stubExtractor{result: hblExtraction()}, docRepo, jobRepo, nil, service.ProcessingConfig{EmailLimit: 10})

	_, err := svc.Run(context.Background(), uuid.New(), false, func(e service.ProcessingEvent) {
		events = append(events, e)
	})
	require.NoError(t, err)

	require.NotEmpty(t, events)
	assert.Equal(t, "Fetched 1 emails", events[0].Message)
	last := events[len(events)-1]
	assert.Contains(t, last.Message, "Created HBL document: HBL-20260102")
}

func TestGenerateDedupeKey_Stable(t *testing.T) {
	a := service.GenerateDedupeKey("msg-1", "hbl.pdf", 1)
	b := service.GenerateDedupeKey("msg-1", "hbl.pdf", 1)
	c := service.GenerateDedupeKey("msg-1", "hbl.pdf", 2)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}
