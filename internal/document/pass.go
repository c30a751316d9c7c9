package document

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"parking-booking/internal/domain/booking"
	"parking-booking/internal/pkg/clock"
	"parking-booking/internal/pkg/errs"
	"parking-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const passSize = 256

// Issuer renders booking documents. Pass tokens are HMAC-signed so a gate
// scanner holding the same secret can verify them offline.
type Issuer struct {
	secret []byte
	clock  clock.Clock
}

func NewIssuer(secret string, clk clock.Clock) *Issuer {
	return &Issuer{secret: []byte(secret), clock: clk}
}

// PassClaims is what a scanned pass proves.
type PassClaims struct {
	BookingID     uuid.UUID
	SlotNumber    string
	VehicleNumber string
	StartTime     time.Time
	EndTime       time.Time
}

// Pass returns a PNG QR code for a booking that can still be parked on.
func (i *Issuer) Pass(v *queries.BookingView) ([]byte, error) {
	if v.Status != booking.StatusBooked.String() || v.ParkingStatus == booking.ParkingCheckedOut.String() {
		return nil, errs.ErrPassUnavailable
	}
	png, err := qrcode.Encode(i.PassToken(v), qrcode.Medium, passSize)
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode parking pass")
	}
	return png, nil
}

// PassToken format: id|slot|vehicle|start|end|signature, times as unix seconds.
func (i *Issuer) PassToken(v *queries.BookingView) string {
	data := fmt.Sprintf("%s|%s|%s|%d|%d",
		v.ID, v.SlotNumber, v.VehicleNumber, v.StartTime.Unix(), v.EndTime.Unix())
	return data + "|" + i.sign(data)
}

func (i *Issuer) VerifyPass(token string) (*PassClaims, error) {
	cut := strings.LastIndex(token, "|")
	if cut < 0 {
		return nil, errs.ErrInvalidPass
	}
	data, sig := token[:cut], token[cut+1:]
	if !hmac.Equal([]byte(sig), []byte(i.sign(data))) {
		return nil, errs.ErrInvalidPass
	}

	parts := strings.Split(data, "|")
	if len(parts) != 5 {
		return nil, errs.ErrInvalidPass
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidPass)
	}
	var start, end int64
	if _, err := fmt.Sscanf(parts[3]+" "+parts[4], "%d %d", &start, &end); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidPass)
	}
	return &PassClaims{
		BookingID:     id,
		SlotNumber:    parts[1],
		VehicleNumber: parts[2],
		StartTime:     time.Unix(start, 0).UTC(),
		EndTime:       time.Unix(end, 0).UTC(),
	}, nil
}

func (i *Issuer) sign(data string) string {
	h := hmac.New(sha256.New, i.secret)
	h.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
