package ticket

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/metinatakli/movie-booking-web/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

var ErrNotConfirmed = errors.New("ticket is only available for confirmed reservations")

// Code is the value encoded in the ticket QR code and printed under it.
func Code(reservationID int) string {
	return "RES-" + strconv.Itoa(reservationID)
}

func QRCode(text string) ([]byte, error) {
	qr, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	png, err := qr.PNG(qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR to PNG: %w", err)
	}

	return png, nil
}

// GeneratePDF renders the receipt of a confirmed reservation as a one page PDF
// with a QR code of the reservation.
func GeneratePDF(receipt domain.Receipt) ([]byte, error) {
	if !receipt.Confirmed() {
		return nil, ErrNotConfirmed
	}

	code := Code(receipt.Reservation.ReservationID)

	png, err := QRCode(code)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, "Movie Ticket", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(code, opts, bytes.NewReader(png))
	pdf.ImageOptions(code, (210.0-60.0)/2, pdf.GetY(), 60, 60, false, opts, 0, "")
	pdf.Ln(62)

	pdf.SetFont("Arial", "I", 11)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, code, "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	res := receipt.Reservation
	row := func(label, value string) {
		pdf.SetFont("Arial", "", 12)
		pdf.SetX(20)
		pdf.CellFormat(45, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 12)
		pdf.MultiCell(125, 8, tr(value), "", "L", false)
	}

	row("Movie:", orNA(res.MovieTitle))
	if res.ShowDate != "" || res.ShowTime != "" {
		row("Show:", res.ShowDate+" "+res.ShowTime)
	}
	row("Status:", string(res.Status))
	if res.EmployeeName != "" {
		row("Served by:", res.EmployeeName)
	}
	pdf.Ln(4)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetX(20)
	for _, h := range []string{"Screen", "Row", "Seat", "Price"} {
		pdf.CellFormat(42.5, 8, h, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	for _, t := range receipt.Tickets {
		pdf.SetX(20)
		pdf.CellFormat(42.5, 7, strconv.Itoa(t.ScreenNo), "", 0, "L", false, 0, "")
		pdf.CellFormat(42.5, 7, tr(t.RowNo.String()), "", 0, "L", false, 0, "")
		pdf.CellFormat(42.5, 7, tr(t.SeatNo.String()), "", 0, "L", false, 0, "")
		pdf.CellFormat(42.5, 7, money(t.Price), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	row("Ticket total:", money(receipt.TicketTotal))

	if len(receipt.Snacks) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.SetX(20)
		pdf.CellFormat(0, 8, "Snacks", "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "", 12)
		for _, l := range receipt.Snacks {
			pdf.SetX(20)
			line := fmt.Sprintf("%s: %s x %d = %s", l.ItemName, money(l.Price), l.Quantity, money(l.LineTotal()))
			pdf.MultiCell(170, 7, tr(line), "", "L", false)
		}
		row("Snack total:", money(receipt.SnackTotal))
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 16)
	pdf.SetX(20)
	pdf.CellFormat(45, 10, "Grand total:", "", 0, "L", false, 0, "")
	pdf.CellFormat(125, 10, money(receipt.GrandTotal), "", 1, "L", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, "Please show this ticket at the entrance.", "", "C", false)

	var buf bytes.Buffer

	err = pdf.Output(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// money uses "Rs." since the core PDF fonts have no rupee sign.
func money(d decimal.Decimal) string {
	return "Rs. " + d.StringFixed(2)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}

	return s
}
