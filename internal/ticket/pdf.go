// Package ticket renders printable e-tickets for paid reservations.
package ticket

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	qrc "github.com/skip2/go-qrcode"

	"github.com/iliyamo/cinema-ticketing/internal/repository"
)

// qrSize is the QR code edge length in pixels.  Medium error correction
// matches what common scanner apps expect.
const qrSize = 300

// Render produces an A4 PDF for the reservation.  The QR code encodes
// the reservation code only; gates validate it against the database, so
// no sensitive data rides along.  Callers are expected to verify the
// reservation is paid before handing out a ticket.
func Render(d *repository.ReservationDetail) ([]byte, error) {
	png, err := qrc.New(d.Code, qrc.Medium)
	if err != nil {
		return nil, fmt.Errorf("generate qr: %w", err)
	}
	qrBytes, err := png.PNG(qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr png: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 22)
	pdf.CellFormat(0, 12, "E-TICKET", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// QR centered under the header.
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	imgName := "qr_" + d.Code
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrBytes))
	qrX := (210.0 - 80.0) / 2
	pdf.ImageOptions(imgName, qrX, pdf.GetY(), 80, 80, false, opts, 0, "")
	pdf.Ln(84)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.5)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(8)

	row := func(label, value string) {
		pdf.SetFont("Arial", "", 13)
		pdf.SetX(25)
		pdf.CellFormat(50, 9, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 9, value, "", 1, "L", false, 0, "")
	}

	row("Movie:", d.MovieTitle)
	row("Hall:", d.HallName)
	row("Starts:", d.ShowStartTime)
	row("Seats:", formatSeats(d.Seats))
	row("Total paid:", d.TotalAmount)
	pdf.Ln(6)

	pdf.SetFont("Arial", "I", 11)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 8, "Reservation code: "+d.Code, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, "Show this ticket at the entrance. The QR code is scanned to validate the reservation.", "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// formatSeats renders the seat list as "R1-S3, R1-S4".
func formatSeats(seats []repository.ReservedSeat) string {
	parts := make([]string, 0, len(seats))
	for _, s := range seats {
		parts = append(parts, fmt.Sprintf("R%d-S%d", s.RowNumber, s.SeatNumber))
	}
	return strings.Join(parts, ", ")
}
