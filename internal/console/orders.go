package console

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/pizzaria/internal/domain/customer"
	"github.com/xenking/pizzaria/internal/domain/order"
	"github.com/xenking/pizzaria/internal/domain/product"
)

// placeOrder collects product and quantity pairs until product 0 and hands
// them to the order service, which prices, stores and issues the receipt.
func (c *Console) placeOrder(ctx context.Context) error {
	c.println("\n=== Novo Pedido ===")
	cu, err := c.lookupCustomer(ctx, "Informe o ID do cliente: ")
	if err != nil || cu == nil {
		return err
	}

	var items []order.LineItem
	for {
		if err := c.listProducts(ctx); err != nil {
			return err
		}
		id, err := c.askInt("ID do produto (0 para finalizar): ")
		if err != nil {
			return err
		}
		if id == 0 {
			break
		}
		p, err := c.d.Products.GetByID(ctx, id)
		if errors.Is(err, product.ErrNotFound) {
			c.println("Produto não encontrado.")
			continue
		}
		if err != nil {
			c.fail("buscar produto", err)
			continue
		}
		qty, err := c.askInt("Quantidade: ")
		if err != nil {
			return err
		}
		if qty <= 0 {
			c.println("Quantidade deve ser maior que zero.")
			continue
		}
		items = append(items, order.LineItem{ProductID: p.ID, Quantity: qty})
		c.printf("Adicionado: %s (x%d)\n", p.Name, qty)
	}
	if len(items) == 0 {
		c.println("Nenhum item adicionado. Pedido cancelado.")
		return nil
	}

	result, err := c.d.Placer.PlaceOrder(ctx, order.PlaceOrderRequest{
		CustomerID: cu.ID,
		Items:      order.EncodeItems(items),
	})
	switch {
	case errors.Is(err, customer.ErrNotFound):
		c.println("Cliente não encontrado!")
		return nil
	case err != nil:
		c.fail("registrar pedido", err)
		return nil
	}

	if !result.Order.Discount.IsZero() {
		c.printf("Promoção aplicada: desconto de R$ %s\n", result.Order.Discount.StringFixed(2))
	}
	c.printf("Pedido #%d registrado com sucesso! Total: R$ %s\n", result.Order.ID, result.Order.Total.StringFixed(2))
	c.println(result.Receipt.Content)
	c.println("Comprovante gravado no banco de dados com sucesso!")
	return nil
}

func (c *Console) listOrders(ctx context.Context) error {
	c.println("\n=== Pedidos ===")
	list, err := c.d.Orders.List(ctx)
	if err != nil {
		c.fail("listar pedidos", err)
		return nil
	}
	if len(list) == 0 {
		c.println("Nenhum pedido registrado.")
		return nil
	}
	for _, s := range list {
		c.printf("ID: %d | Cliente: %s | Itens: %s | Total: R$ %s | Status: %s\n",
			s.ID, s.CustomerName, s.Items, s.Total.StringFixed(2), s.Status)
	}
	return nil
}

func (c *Console) salesReport(ctx context.Context) error {
	c.println("\n=== Relatórios de Vendas ===")
	s, err := c.d.Reports.Sales(ctx)
	if err != nil {
		c.fail("gerar relatório", err)
		return nil
	}
	c.println("\nVendas do Dia:")
	c.printf("Pedidos: %d\n", s.Today.Orders)
	c.printf("Total Vendido: R$ %s\n", s.Today.Total.StringFixed(2))
	c.println("\nVendas do Mês:")
	c.printf("Pedidos: %d\n", s.Month.Orders)
	c.printf("Total Vendido: R$ %s\n", s.Month.Total.StringFixed(2))
	return nil
}
