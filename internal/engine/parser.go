package engine

import (
	"regexp"
	"strconv"
	"strings"

	"inventory-service/internal/models"
	"inventory-service/internal/textnorm"
)

var (
	reOrdinalPrefix = regexp.MustCompile(`^\d{1,3}[.\s]\s*`)
	reLeadingID     = regexp.MustCompile(`^\[([^\]]+)\]`)

	// Last separator run followed by a numeric token, an optional unit word,
	// and an optional trailing bracketed annotation. Greedy (.*) pins the scan
	// to the last occurrence on the line.
	reQuantity = regexp.MustCompile(`^(.*)[\sxX*＊×]+([0-9,.]+)\s*([^\[\n]*)(?:\s*\[(.*)\])?$`)

	// Tile-size style dimensions (15x15cm, 60*60, 10 x 20 x 30mm) describe
	// geometry, not product identity, and must not leak into fuzzy comparison.
	reDimension = regexp.MustCompile(`(\d+(\.\d+)?)\s*[xX*]\s*(\d+(\.\d+)?)(?:\s*[xX*]\s*(\d+(\.\d+)?))?(\s*[cCmMgG][mM])?`)

	reBrackets   = regexp.MustCompile(`[(（][^)）]*[)）]|\[[^\]]*\]`)
	reHeadNoise  = regexp.MustCompile(`^[-\s]+`)
	reTailNoise  = regexp.MustCompile(`[xX*]+$`)
	reMultiSpace = regexp.MustCompile(`\s{2,}`)
	reEdgeQuotes = regexp.MustCompile(`^["']|["']$`)
)

// ParseOrderText splits an order's free-text body into structured line items.
// It never fails: blank lines are omitted, and any other line yields exactly
// one item with a non-empty CleanName. A line whose quantity cannot be parsed
// gets a nil Quantity rather than being dropped.
func ParseOrderText(body string) []models.OrderLineItem {
	if body == "" {
		return nil
	}

	var items []models.OrderLineItem
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		items = append(items, parseLine(line))
	}
	return items
}

func parseLine(line string) models.OrderLineItem {
	s := strings.TrimSpace(line)
	s = strings.ReplaceAll(s, "　", " ")
	s = reEdgeQuotes.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = reOrdinalPrefix.ReplaceAllString(s, "")

	productID := ""
	if m := reLeadingID.FindStringSubmatch(s); m != nil {
		productID = m[1]
		s = strings.TrimSpace(s[len(m[0]):])
	}

	name := s
	unit := ""
	var qty *float64
	if m := reQuantity.FindStringSubmatch(s); m != nil && m[2] != "" {
		if n := strings.TrimSpace(m[1]); n != "" {
			name = n
		}
		qty = parseLineQty(m[2])
		unit = strings.TrimSpace(m[3])
	}

	rawName := name
	cleanName := reDimension.ReplaceAllString(name, "")
	cleanName = reBrackets.ReplaceAllString(cleanName, "")
	cleanName = reHeadNoise.ReplaceAllString(cleanName, "")
	cleanName = reTailNoise.ReplaceAllString(cleanName, "")
	cleanName = strings.TrimSpace(reMultiSpace.ReplaceAllString(cleanName, " "))

	if productID != "" {
		cleanName = stripRedundantID(cleanName, productID)
	}

	// A line must never resolve to an empty product name.
	if cleanName == "" {
		cleanName = rawName
	}
	if cleanName == "" {
		cleanName = strings.TrimSpace(line)
	}

	return models.OrderLineItem{
		ProductID:    productID,
		CleanName:    cleanName,
		RawName:      rawName,
		OriginalLine: line,
		Quantity:     qty,
		Unit:         unit,
	}
}

// stripRedundantID removes the product id from the head of the cleaned name
// when the name merely repeats it (operators often type "[RD116] RD-116 紅磚").
// The strip is committed only if the remainder still carries identity: longer
// than one rune or containing a CJK character. Otherwise the id IS the name
// and stripping would collapse it to nothing.
func stripRedundantID(cleanName, productID string) string {
	if !strings.HasPrefix(textnorm.Key(cleanName), textnorm.Key(productID)) {
		return cleanName
	}

	var pat strings.Builder
	pat.WriteString(`(?i)^`)
	for _, r := range productID {
		pat.WriteString(regexp.QuoteMeta(string(r)))
		pat.WriteString(`.?`)
	}
	pat.WriteString(`[-_\s]*`)

	re, err := regexp.Compile(pat.String())
	if err != nil {
		return cleanName
	}

	remainder := strings.TrimSpace(re.ReplaceAllString(cleanName, ""))
	if len([]rune(remainder)) > 1 || textnorm.HasCJK(remainder) {
		return remainder
	}
	return cleanName
}

func parseLineQty(token string) *float64 {
	token = strings.ReplaceAll(strings.TrimSpace(token), ",", "")
	n, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil
	}
	return &n
}
