package notify

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wakandasalud/clinic-api/internal/domain"
)

const invoiceIssuedTemplate = `🧾 FACTURA GENERADA 🧾

Número: %s
Fecha: %s
Total a pagar: $%s

Por favor realice el pago en un plazo de 48 horas.
¡Gracias por su preferencia!`

const phoneRegisteredTemplate = `📲 Hola %s,

Has sido registrado en nuestro sistema medico Wakanda Salud.

¡Gracias por formar parte de nuestra familia!`

const phoneUpdatedTemplate = `📲 Hola %s,

Tus datos de contacto han sido actualizados en nuestro sistema.

Nuevo número: %s

Si no realizaste este cambio, por favor contáctanos.`

// InvoiceIssuedMessage renders the WhatsApp text sent when an invoice is
// created. The date is server time, day/month/year; the total is displayed
// half-up to two decimals.
func InvoiceIssuedMessage(invoiceNumber string, issuedAt time.Time, total decimal.Decimal) string {
	return fmt.Sprintf(invoiceIssuedTemplate,
		invoiceNumber,
		issuedAt.Format("02/01/2006"),
		domain.FormatTotal(total),
	)
}

// PhoneRegisteredMessage renders the welcome text for a newly registered contact.
func PhoneRegisteredMessage(name string) string {
	return fmt.Sprintf(phoneRegisteredTemplate, name)
}

// PhoneUpdatedMessage renders the confirmation text after a contact update.
func PhoneUpdatedMessage(name string, fullNumber string) string {
	return fmt.Sprintf(phoneUpdatedTemplate, name, fullNumber)
}
