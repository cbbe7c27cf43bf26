package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date time.Time // Дата без времени; нулевое значение = дата не выбрана
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date      time.Time          // Дата, на которую запрашивались слоты (нулевая, если не выбрана)
	AllSlots  []types.TimeString // Полный набор слотов дня
	Available []types.TimeString // Свободные слоты в порядке набора
	Booked    []types.TimeString // Занятые слоты на дату
}
