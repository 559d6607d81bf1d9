package mailer

import (
	"fmt"
	"strings"
)

// OrderDetails carries the already-persisted order fields needed to render
// the two order message types. Total and prices are preformatted strings so
// the renderer never does money arithmetic.
type OrderDetails struct {
	Number        string
	CustomerName  string
	CustomerEmail string
	Total         string
	Items         []OrderLine
}

// OrderLine is a single itemized product row in the order notices.
type OrderLine struct {
	ProductName string
	Quantity    int
	Price       string
}

const adminContactNoticeTemplate = `<html>
<body>
  <h2>Nuovo messaggio di contatto</h2>
  <p><strong>Nome:</strong> {{name}}</p>
  <p><strong>Email:</strong> {{email}}</p>
  <p><strong>Oggetto:</strong> {{subject}}</p>
  <hr>
  <p>{{message}}</p>
</body>
</html>`

const customerContactAckTemplate = `<html>
<body>
  <h2>Grazie per averci contattato, {{name}}!</h2>
  <p>Abbiamo ricevuto il tuo messaggio riguardo "{{subject}}" e ti risponderemo al più presto.</p>
  <p>Nel frattempo puoi dare un'occhiata ai nostri prodotti:</p>
  <p><a href="{{ctaUrl}}">Scopri i nostri prodotti</a></p>
</body>
</html>`

const adminOrderNoticeTemplate = `<html>
<body>
  <h2>Nuovo ordine ricevuto</h2>
  <p><strong>Numero ordine:</strong> {{orderNumber}}</p>
  <p><strong>Cliente:</strong> {{customerName}} ({{customerEmail}})</p>
  <p><strong>Totale:</strong> {{total}}</p>
  <h3>Prodotti</h3>
  <ul>{{items}}</ul>
</body>
</html>`

const customerOrderAckTemplate = `<html>
<body>
  <h2>Grazie per il tuo ordine, {{customerName}}!</h2>
  <p>Abbiamo ricevuto il tuo ordine <strong>{{orderNumber}}</strong> ed è ora in lavorazione.</p>
  <p><strong>Totale:</strong> {{total}}</p>
  <h3>Riepilogo</h3>
  <ul>{{items}}</ul>
  <p>Riceverai una email di conferma appena l'ordine sarà spedito.</p>
</body>
</html>`

func renderOrderItems(items []OrderLine) string {
	var sb strings.Builder
	for _, it := range items {
		fmt.Fprintf(&sb, "<li>%s x%d - %s</li>", it.ProductName, it.Quantity, it.Price)
	}
	return sb.String()
}

func buildAdminContactNotice(cfg Config, name, email, subject, message string) (Message, error) {
	body, err := RenderTemplate(adminContactNoticeTemplate, TemplateParams{
		"name":    name,
		"email":   email,
		"subject": subject,
		"message": message,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       cfg.AdminEmail,
		ToName:   cfg.AdminName,
		Subject:  "Nuovo messaggio di contatto - " + subject,
		BodyHTML: body,
		Type:     TypeAdminContactNotice,
	}, nil
}

func buildCustomerContactAck(cfg Config, name, email, subject string) (Message, error) {
	body, err := RenderTemplate(customerContactAckTemplate, TemplateParams{
		"name":    name,
		"subject": subject,
		"ctaUrl":  cfg.ContactCTAURL,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       email,
		ToName:   name,
		Subject:  "Abbiamo ricevuto il tuo messaggio - " + subject,
		BodyHTML: body,
		Type:     TypeCustomerContactAck,
	}, nil
}

func buildAdminOrderNotice(cfg Config, order OrderDetails) (Message, error) {
	body, err := RenderTemplate(adminOrderNoticeTemplate, TemplateParams{
		"orderNumber":   order.Number,
		"customerName":  order.CustomerName,
		"customerEmail": order.CustomerEmail,
		"total":         order.Total,
		"items":         renderOrderItems(order.Items),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       cfg.AdminEmail,
		ToName:   cfg.AdminName,
		Subject:  "Nuovo ordine ricevuto - " + order.Number,
		BodyHTML: body,
		Type:     TypeAdminOrderNotice,
	}, nil
}

func buildCustomerOrderAck(cfg Config, order OrderDetails) (Message, error) {
	body, err := RenderTemplate(customerOrderAckTemplate, TemplateParams{
		"orderNumber":  order.Number,
		"customerName": order.CustomerName,
		"total":        order.Total,
		"items":        renderOrderItems(order.Items),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       order.CustomerEmail,
		ToName:   order.CustomerName,
		Subject:  "Conferma ordine " + order.Number,
		BodyHTML: body,
		Type:     TypeCustomerOrderAck,
	}, nil
}
