package services

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// QuotePDFData holds everything the quote document needs. Totals must come
// from ComputeTotals over the same items.
type QuotePDFData struct {
	Issuer    PartyData
	Client    PartyData
	Items     []LineItem
	Totals    QuoteTotals
	QuoteDate time.Time
	LogoPath  string
}

// GenerateQuotePDF renders the quote as a paginated PDF using maroto/v2 and
// returns the raw bytes.
func GenerateQuotePDF(data QuotePDFData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(14).
		WithTopMargin(12).
		WithRightMargin(14).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addQuoteHeader(m, data)
	addQuoteTitle(m, data)
	addQuoteTableHeader(m)
	for _, item := range data.Items {
		addQuoteTableRow(m, item)
	}
	addQuoteTotals(m, data.Totals)
	addQuotePaymentMethods(m, data.Issuer.PaymentMethods)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quote PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// addQuoteHeader adds the optional logo plus the issuer block on the left
// and the client block on the right.
func addQuoteHeader(m core.Maroto, data QuotePDFData) {
	if data.LogoPath != "" {
		m.AddRows(
			row.New(18).Add(
				col.New(3).Add(
					image.NewFromFile(data.LogoPath, props.Rect{
						Center:  false,
						Percent: 90,
					}),
				),
				col.New(9),
			),
		)
	}

	labelStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Left,
	}
	valueStyle := props.Text{
		Size:  9,
		Align: align.Left,
	}

	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New("DE:", labelStyle)),
			col.New(6).Add(text.New("PARA:", labelStyle)),
		),
	)

	issuerLines := partyLines(data.Issuer)
	clientLines := partyLines(data.Client)
	for len(issuerLines) < len(clientLines) {
		issuerLines = append(issuerLines, "")
	}
	for len(clientLines) < len(issuerLines) {
		clientLines = append(clientLines, "")
	}
	for i := range issuerLines {
		m.AddRows(
			row.New(5).Add(
				col.New(6).Add(text.New(issuerLines[i], valueStyle)),
				col.New(6).Add(text.New(clientLines[i], valueStyle)),
			),
		)
	}

	m.AddRows(row.New(4))
}

func partyLines(p PartyData) []string {
	var lines []string
	for _, s := range []string{p.Name, p.Company, p.Email, p.Phone} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

func addQuoteTitle(m core.Maroto, data QuotePDFData) {
	m.AddRows(
		row.New(10).Add(
			col.New(12).Add(
				text.New("Presupuesto de Servicios", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
		row.New(7).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Fecha: %s", FormatDate(data.QuoteDate)), props.Text{
					Size:  10,
					Align: align.Center,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
		row.New(3),
	)
}

func addQuoteTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(5).Add(text.New("Servicio", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Cant.", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("P. Unit. ($)", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Desc. %", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Subtotal ($)", headerText)).WithStyle(&headerCell),
		),
	)
}

func addQuoteTableRow(m core.Maroto, item LineItem) {
	cellText := props.Text{Size: 8, Align: align.Center}
	cellTextLeft := props.Text{Size: 8, Align: align.Left}
	cellTextRight := props.Text{Size: 8, Align: align.Right}

	m.AddRows(
		row.New(6).Add(
			col.New(5).Add(text.New(item.Name, cellTextLeft)),
			col.New(1).Add(text.New(fmt.Sprintf("%d", item.Quantity), cellText)),
			col.New(2).Add(text.New(FormatAmount(item.UnitPrice), cellTextRight)),
			col.New(2).Add(text.New(FormatPercent(item.DiscountPercent), cellText)),
			col.New(2).Add(text.New(FormatAmount(item.Subtotal()), cellTextRight)),
		),
	)
}

// addQuoteTotals adds the totals footer. The tax line only appears when a
// tax percentage was entered, the advance line only when an advance was
// paid; total and pending balance are always shown in bold.
func addQuoteTotals(m core.Maroto, totals QuoteTotals) {
	labelStyle := props.Text{Size: 9, Align: align.Right}
	valueStyle := props.Text{Size: 9, Align: align.Right}
	boldLabel := props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}
	boldValue := props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}

	m.AddRows(row.New(3))
	m.AddRows(
		row.New(6).Add(
			col.New(8),
			col.New(2).Add(text.New("Subtotal:", labelStyle)),
			col.New(2).Add(text.New(FormatAmount(totals.Subtotal), valueStyle)),
		),
	)

	if totals.TaxPercent > 0 {
		m.AddRows(
			row.New(6).Add(
				col.New(8),
				col.New(2).Add(text.New(fmt.Sprintf("IVA (%s):", FormatPercent(totals.TaxPercent)), labelStyle)),
				col.New(2).Add(text.New(FormatAmount(totals.TaxAmount), valueStyle)),
			),
		)
	}

	m.AddRows(
		row.New(7).Add(
			col.New(8),
			col.New(2).Add(text.New("Total:", boldLabel)),
			col.New(2).Add(text.New(FormatAmount(totals.Total), boldValue)),
		),
	)

	if totals.AdvancePayment > 0 {
		m.AddRows(
			row.New(6).Add(
				col.New(8),
				col.New(2).Add(text.New("Seña:", labelStyle)),
				col.New(2).Add(text.New(FormatAmount(totals.AdvancePayment), valueStyle)),
			),
		)
	}

	m.AddRows(
		row.New(7).Add(
			col.New(8),
			col.New(2).Add(text.New("Saldo pendiente:", boldLabel)),
			col.New(2).Add(text.New(FormatAmount(totals.PendingBalance), boldValue)),
		),
	)
}

// addQuotePaymentMethods adds the free-text payment methods block. Maroto
// word-wraps the text to the page width on its own.
func addQuotePaymentMethods(m core.Maroto, methods string) {
	if methods == "" {
		return
	}
	m.AddRows(
		row.New(4),
		row.New(6).Add(
			col.New(12).Add(
				text.New("Métodos de Pago:", props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
		),
		text.NewRow(12, methods, props.Text{
			Size:  9,
			Align: align.Left,
		}),
	)
}
