package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date      string   `json:"date,omitempty"` // пусто, если дата не выбрана
	Slots     []string `json:"slots"`
	Available []string `json:"available"`
	Booked    []string `json:"booked"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	out := &AvailableSlotsResponse{
		Slots:     toStrings(resp.AllSlots),
		Available: toStrings(resp.Available),
		Booked:    toStrings(resp.Booked),
	}
	if !resp.Date.IsZero() {
		out.Date = resp.Date.Format(domain.DateFormat)
	}
	return out
}

// ToUseCaseRequest создает запрос use case из query параметра date (необязательный)
func ToUseCaseRequest(dateStr string) (*getAvailableSlots.Request, error) {
	if dateStr == "" {
		return &getAvailableSlots.Request{}, nil
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{Date: date}, nil
}

func toStrings(slots []types.TimeString) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}
