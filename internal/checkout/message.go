package checkout

import (
	"strconv"
	"strings"

	"github.com/lbstore/storefront-backend/internal/cart"
	"github.com/lbstore/storefront-backend/internal/coupons"
	"github.com/lbstore/storefront-backend/internal/money"
	"github.com/lbstore/storefront-backend/internal/pricing"
)

const customerBlock = "*Dados do Cliente:*\nNome: _______________\nTelefone: _______________\nEndereço: _______________"

// BuildMessage renders the order text sent to the store. The coupon line
// appears only when a coupon is applied.
func BuildMessage(appTitle string, lines []cart.LineItem, applied *coupons.Coupon, quote pricing.Breakdown) string {
	var b strings.Builder
	b.WriteString("*NOVO PEDIDO - " + appTitle + "*\n\n")

	b.WriteString("*Itens:*\n")
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(line.Quantity) + "x " + line.Title + " - " + money.FormatBRL(line.Price.Times(line.Quantity)))
	}
	b.WriteString("\n\n")

	if applied != nil {
		b.WriteString("*Cupom:* " + applied.Code + " (-" + money.FormatBRL(quote.Discount) + ")\n")
	}
	b.WriteString("*Total:* " + money.FormatBRL(quote.Total) + "\n\n")
	b.WriteString(customerBlock)
	return b.String()
}
