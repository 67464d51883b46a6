package extract

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/logging"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/table"
)

// cardColumns is the column set of the card details document.
var cardColumns = []string{
	"card_number", "expiry_date", "card_provider", "date_payment_confirmed",
}

// CardDetails downloads the card details PDF and parses its tabular pages
// into one table.
func CardDetails(ctx context.Context, url string) (*table.Table, error) {
	logging.Info().Str("url", url).Msg("Reading PDF data")

	client := &http.Client{Timeout: 120 * time.Second}
	body, err := fetch(ctx, client, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download PDF: %w", err)
	}

	t, err := parseCardPDF(body)
	if err != nil {
		return nil, err
	}
	logging.Info().Int("rows", t.Len()).Msg("Records loaded")
	return t, nil
}

func parseCardPDF(body []byte) (*table.Table, error) {
	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}

	t := table.New(cardColumns...)
	for pageNo := 1; pageNo <= reader.NumPage(); pageNo++ {
		page := reader.Page(pageNo)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("failed to read PDF page %d: %w", pageNo, err)
		}

		for _, row := range rows {
			var words []string
			for _, word := range row.Content {
				if w := strings.TrimSpace(word.S); w != "" {
					words = append(words, w)
				}
			}
			cells, ok := parseCardRow(words)
			if !ok {
				continue
			}
			if err := t.AppendRow(cells...); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// parseCardRow maps one text row to the card column set. The first word is
// the card number, the second the expiry date, the last the payment date;
// everything in between is the provider, which may span several words
// ("American Express", "Diners Club / Carte Blanche"). Header rows are
// recognized by their column labels.
func parseCardRow(words []string) ([]string, bool) {
	if len(words) < 4 {
		return nil, false
	}
	if words[0] == "card_number" {
		return nil, false
	}
	provider := strings.Join(words[2:len(words)-1], " ")
	return []string{words[0], words[1], provider, words[len(words)-1]}, true
}
