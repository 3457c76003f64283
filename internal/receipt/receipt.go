package receipt

import (
	"bytes"
	"fmt"

	"go-gin-ecommerce/internal/model"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// Render 產生購買憑證 PDF，QR code 內容為票券代碼
func Render(ticket *model.Ticket) ([]byte, error) {
	qrPNG, err := qrcode.Encode(ticket.Code, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetTitle("Purchase receipt "+ticket.Code, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Purchase receipt")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	rows := [][2]string{
		{"Code", ticket.Code},
		{"Date", ticket.PurchaseDatetime.UTC().Format("2006-01-02 15:04:05 UTC")},
		{"Purchaser", ticket.Purchaser},
		{"Amount", fmt.Sprintf("$%.2f", ticket.Amount)},
	}
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(25, 8, row[0]+":")
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(0, 8, row[1])
		pdf.Ln(8)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 49, 70, 50, 50, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return buf.Bytes(), nil
}
