package index

import (
	"io"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/service/catalog/models"
)

type CatalogService interface {
	GetCatalog() *models.CatalogResponse
}

// Renderer *template.Template
type Renderer interface {
	ExecuteTemplate(w io.Writer, name string, data interface{}) error
}

type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Error(format string, v ...interface{})
}
