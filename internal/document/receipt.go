package document

import (
	"bytes"
	"fmt"
	"time"

	"parking-booking/internal/domain/booking"
	"parking-booking/internal/pkg/errs"
	"parking-booking/internal/usecase/queries"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

const receiptTimeLayout = "02 Jan 2006 15:04 MST"

// Receipt renders an A4 PDF for a paid booking.
func (i *Issuer) Receipt(v *queries.BookingView) ([]byte, error) {
	if v.Payment.Status != booking.PaymentCompleted.String() || v.Payment.AmountCents == nil {
		return nil, errs.ErrNotPaid
	}

	qr, err := qrcode.Encode(v.ID.String(), qrcode.Medium, 128)
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode receipt code")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetTitle("Parking receipt "+v.ID.String(), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 15, "Parking Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	for _, row := range receiptRows(v) {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(55, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 12, "Total: "+formatAmount(*v.Payment.AmountCents), "T", 1, "R", false, 0, "")

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("receipt-qr", opts, bytes.NewReader(qr))
	pdf.ImageOptions("receipt-qr", 150, 30, 35, 35, false, opts, 0, "")

	pdf.SetY(-30)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 10, "Issued "+i.clock.Now().UTC().Format(receiptTimeLayout), "T", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errs.Wrap(err, "failed to render receipt")
	}
	return buf.Bytes(), nil
}

func receiptRows(v *queries.BookingView) [][2]string {
	rows := [][2]string{
		{"Booking", v.ID.String()},
		{"Slot", v.SlotNumber},
		{"Vehicle", v.VehicleNumber},
		{"Reserved", formatTime(v.StartTime) + " - " + formatTime(v.EndTime)},
	}
	if v.ActualEntryTime != nil {
		rows = append(rows, [2]string{"Entry", formatTime(*v.ActualEntryTime)})
	}
	if v.ActualExitTime != nil {
		rows = append(rows, [2]string{"Exit", formatTime(*v.ActualExitTime)})
	}
	if v.ActualDurationMinutes != nil {
		rows = append(rows, [2]string{"Duration", fmt.Sprintf("%.2f h", float64(*v.ActualDurationMinutes)/60)})
	}
	if v.Payment.Method != nil {
		rows = append(rows, [2]string{"Payment method", *v.Payment.Method})
	}
	if v.Payment.PaidAt != nil {
		rows = append(rows, [2]string{"Paid at", formatTime(*v.Payment.PaidAt)})
	}
	return rows
}

func formatTime(t time.Time) string {
	return t.UTC().Format(receiptTimeLayout)
}

func formatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
