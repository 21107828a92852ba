package extract

import (
	"regexp"
	"strconv"
	"strings"

	"ladinglens/internal/domain"
)

const (
	// Table section anchors as the converter renders them.
	containerHeaderMark = "|CONTAINER NO."
	marksHeaderMark     = "|MARKS & NUMBERS"

	// Weight is reliably the first numeric cell above this threshold after a
	// container row starts; smaller numbers in the row (package counts, type
	// codes) are not weights.
	minWeight = 50

	// Sanity ceiling for a value to plausibly be CBM rather than kilograms.
	maxSaneVolume = 200

	weightWindow        = 200
	singleVolumeWindow  = 300
	orphanVolumeEpsilon = 0.001
)

var (
	containerIDRe = regexp.MustCompile(`\b([A-Z]{4}\d{7})\b`)

	// Decimal cell value terminated by a table delimiter.
	cellWeightRe = regexp.MustCompile(`(\d[\d\s,]*\.\d+)\|`)

	// Two-cell numeric row: total weight followed by total volume.
	totalsRowRe = regexp.MustCompile(`\|[\s\n]*(\d[\d\s,.]+)\s*\|[\s\n]*(\d+\.?\d*)\s*\|`)

	// Free-floating volumes follow the shipment convention of exactly three
	// fractional digits.
	orphanVolumeRe = regexp.MustCompile(`\b(\d+\.\d{3})\b`)
)

// parseNumber parses a numeric cell value, tolerating thousands separators
// rendered as spaces or commas. Returns nil on any parse failure.
func parseNumber(value string) *float64 {
	cleaned := strings.NewReplacer(" ", "", ",", "").Replace(value)
	if cleaned == "" {
		return nil
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &f
}

// WeightNear inspects the window of text immediately following a container
// occurrence and returns the first delimiter-terminated decimal above the
// minimum weight threshold.
func WeightNear(markdown string, pos int) *float64 {
	end := pos + weightWindow
	if end > len(markdown) {
		end = len(markdown)
	}
	window := markdown[pos:end]

	for _, m := range cellWeightRe.FindAllStringSubmatch(window, -1) {
		if parsed := parseNumber(m[1]); parsed != nil && *parsed > minWeight {
			return parsed
		}
	}
	return nil
}

// aggregateVolume finds the last two-cell numeric row before the container
// table header and returns its second cell as the shipment's total volume.
// The last match is the closest to the table, hence the summary row.
func aggregateVolume(markdown string, containerHeaderPos int) *float64 {
	searchText := markdown
	if containerHeaderPos != -1 {
		searchText = markdown[:containerHeaderPos]
	}
	matches := totalsRowRe.FindAllStringSubmatch(searchText, -1)
	if len(matches) == 0 {
		return nil
	}
	return parseNumber(matches[len(matches)-1][2])
}

// singleContainerVolume checks whether a two-cell row near a lone container
// yields a value plausible as that container's own volume.
func singleContainerVolume(markdown string, pos int) *float64 {
	end := pos + singleVolumeWindow
	if end > len(markdown) {
		end = len(markdown)
	}
	m := totalsRowRe.FindStringSubmatch(markdown[pos:end])
	if m == nil {
		return nil
	}
	v := parseNumber(m[2])
	if v != nil && *v < maxSaneVolume {
		return v
	}
	return nil
}

// orphanedVolumes collects free-floating three-decimal values between the
// marks table heading and the container table heading, excluding the already
// identified total. Some documents list individual container volumes as loose
// text in that gap.
func orphanedVolumes(markdown string, marksPos, containerPos int, total *float64) []float64 {
	gap := markdown[marksPos:containerPos]
	var orphans []float64
	for _, m := range orphanVolumeRe.FindAllStringSubmatch(gap, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if total != nil && abs(v-*total) <= orphanVolumeEpsilon {
			continue
		}
		orphans = append(orphans, v)
	}
	return orphans
}

// Containers locates container identifiers and reconciles each with a weight
// and a volume. Discovery order in the text defines the output order. No
// containers found is an empty result, not an error.
func Containers(markdown string) []domain.ContainerInfo {
	var numbers []string
	seen := map[string]bool{}
	for _, m := range containerIDRe.FindAllStringSubmatch(markdown, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			numbers = append(numbers, m[1])
		}
	}
	if len(numbers) == 0 {
		return nil
	}

	weights := make([]*float64, len(numbers))
	for i, number := range numbers {
		pos := strings.Index(markdown, number)
		if pos == -1 {
			continue
		}
		weights[i] = WeightNear(markdown, pos)
	}

	containerHeaderPos := strings.Index(markdown, containerHeaderMark)
	totalVolume := aggregateVolume(markdown, containerHeaderPos)

	// A lone container may carry its own volume cell directly after its
	// weight; that beats the aggregate figure.
	if len(numbers) == 1 {
		if pos := strings.Index(markdown, numbers[0]); pos != -1 {
			if v := singleContainerVolume(markdown, pos); v != nil {
				totalVolume = v
			}
		}
	}

	// Equal distribution is the best default when the document only lists an
	// aggregate volume.
	volumes := make([]*float64, len(numbers))
	if totalVolume != nil {
		share := *totalVolume / float64(len(numbers))
		for i := range volumes {
			v := share
			volumes[i] = &v
		}
	}

	// Orphaned individual volumes trail the container list in the same order,
	// so the last K orphans map onto the last K containers. This intentionally
	// overrides both the equal share and the single-container value above.
	// Some layouts put the container table above the marks table; then there
	// is no gap to scan.
	marksPos := strings.Index(markdown, marksHeaderMark)
	if marksPos != -1 && containerHeaderPos != -1 && marksPos < containerHeaderPos {
		orphans := orphanedVolumes(markdown, marksPos, containerHeaderPos, totalVolume)
		count := len(orphans)
		if count > len(volumes) {
			count = len(volumes)
		}
		for i := 1; i <= count; i++ {
			v := orphans[len(orphans)-i]
			volumes[len(volumes)-i] = &v
		}
	}

	containers := make([]domain.ContainerInfo, len(numbers))
	for i, number := range numbers {
		containers[i] = domain.ContainerInfo{
			Number: number,
			Weight: weights[i],
			Volume: volumes[i],
		}
	}
	return containers
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
