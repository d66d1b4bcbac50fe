package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var purchaseTemplate = template.Must(template.New("purchase").Parse(`<p>Dzień dobry {{.Name}},</p>
<p>dziękujemy za zakup karnetu <strong>{{.PassType}}</strong>.</p>
<p>Karnet jest ważny od {{.Start}} do {{.End}}.</p>
<p>Kwota: {{.Amount}} ({{.Method}})</p>`))

type PurchaseDetails struct {
	Email       string
	Name        string
	PassType    string
	Start       time.Time
	End         time.Time
	AmountCents int64
	Method      string
}

// PurchaseConfirmation renders the confirmation sent after a membership purchase.
func PurchaseConfirmation(details PurchaseDetails) (Message, error) {
	var body bytes.Buffer
	err := purchaseTemplate.Execute(&body, map[string]string{
		"Name":     details.Name,
		"PassType": details.PassType,
		"Start":    details.Start.Format("2006-01-02"),
		"End":      details.End.Format("2006-01-02"),
		"Amount":   FormatAmount(details.AmountCents),
		"Method":   details.Method,
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:      []string{details.Email},
		Subject: "Potwierdzenie zakupu karnetu",
		HTML:    body.String(),
	}, nil
}

// FormatAmount renders cents as a decimal PLN amount, e.g. 15000 -> "150.00 PLN".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d PLN", sign, cents/100, cents%100)
}
