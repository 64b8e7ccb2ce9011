package handlers

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/GregMSThompson/vending-backend/internal/models"
	"github.com/GregMSThompson/vending-backend/internal/response"
)

//go:embed templates/home.html
var homeHTML string

var homeTemplate = template.Must(template.New("home").Parse(homeHTML))

type homePage struct {
	AIConnected     bool
	PaymentReady    bool
	WalletReady     bool
	PaymentSentence string
	Model           string
	Price           string
	Network         string
	Origin          string
}

type homeHandlers struct {
	ResponseHandler response.ResponseHandler
	Status          models.ServiceStatus
	Model           string
	PaymentSvc      PaymentService
}

func NewHomeHandlers(deps *Deps) *homeHandlers {
	return &homeHandlers{
		ResponseHandler: deps.ResponseHandler,
		Status:          deps.Status,
		Model:           deps.Model,
		PaymentSvc:      deps.PaymentSvc,
	}
}

func (h *homeHandlers) Home(w http.ResponseWriter, r *http.Request) {
	page := homePage{
		AIConnected:     h.Status.AI == models.StatusConnected,
		PaymentReady:    h.Status.Payment == models.StatusReady,
		WalletReady:     h.Status.Wallet == models.StatusReady,
		PaymentSentence: "Awaiting hackathon credentials",
		Model:           h.Model,
		Origin:          requestOrigin(r),
	}
	if page.PaymentReady {
		page.PaymentSentence = "Ready for payments"
	}
	if h.PaymentSvc != nil {
		page.Price = h.PaymentSvc.Price()
		page.Network = h.PaymentSvc.Network()
	}

	var buf bytes.Buffer
	if err := homeTemplate.Execute(&buf, page); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteHTML(w, r, http.StatusOK, buf.Bytes())
}
