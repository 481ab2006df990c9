package controllers

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestWebhookSignature(t *testing.T) {
	app := fiber.New()
	app.Post("/t/:provider", func(c *fiber.Ctx) error {
		return c.SendString(webhookSignature(c, c.Params("provider")))
	})

	tests := []struct {
		provider string
		header   string
		value    string
		want     string
	}{
		{provider: "stripe", header: "Stripe-Signature", value: "t=1,v1=abc", want: "t=1,v1=abc"},
		{provider: "asaas", header: "asaas-access-token", value: "tok_1", want: "tok_1"},
		{provider: "mercadopago", header: "x-signature", value: "ts=1,v1=def", want: "ts=1,v1=def"},
		// Unknown providers get no header mapping, so no signature is read
		// even when a known header is present on the request.
		{provider: "nope", header: "Stripe-Signature", value: "t=1,v1=abc", want: ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("POST", "/t/"+tt.provider, nil)
		req.Header.Set(tt.header, tt.value)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: request failed: %v", tt.provider, err)
		}
		got, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("%s: could not read body: %v", tt.provider, err)
		}
		if string(got) != tt.want {
			t.Fatalf("%s: signature = %q, want %q", tt.provider, got, tt.want)
		}
	}
}
