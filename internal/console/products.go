package console

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/pizzaria/internal/domain/product"
)

func (c *Console) createProduct(ctx context.Context) error {
	c.println("\n=== Cadastro de Produto ===")
	name, err := c.ask("Nome do produto: ")
	if err != nil {
		return err
	}
	price, err := c.askPrice("Preço (R$): ")
	if err != nil {
		return err
	}

	p := product.Product{Name: name, Price: price}
	if err := p.Validate(); err != nil {
		c.fail("cadastrar produto", err)
		return nil
	}
	if err := c.d.Products.Create(ctx, &p); err != nil {
		c.fail("cadastrar produto", err)
		return nil
	}
	c.printf("Produto cadastrado com sucesso! ID: %d\n", p.ID)
	return nil
}

// askPrice accepts "12.50" and the Brazilian "12,50".
func (c *Console) askPrice(prompt string) (decimal.Decimal, error) {
	for {
		s, err := c.ask(prompt)
		if err != nil {
			return decimal.Decimal{}, err
		}
		d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
		if err == nil {
			return d, nil
		}
		c.println("Digite um valor numérico.")
	}
}

func (c *Console) listProducts(ctx context.Context) error {
	c.println("\n=== Lista de Produtos ===")
	list, err := c.d.Products.List(ctx)
	if err != nil {
		c.fail("listar produtos", err)
		return nil
	}
	if len(list) == 0 {
		c.println("Nenhum produto cadastrado.")
		return nil
	}
	for _, p := range list {
		c.printf("ID: %d | %s | R$ %s\n", p.ID, p.Name, p.Price.StringFixed(2))
	}
	return nil
}

func (c *Console) deleteProduct(ctx context.Context) error {
	c.println("\n=== Excluir Produto ===")
	if err := c.listProducts(ctx); err != nil {
		return err
	}
	id, err := c.askInt("ID do produto a excluir: ")
	if err != nil {
		return err
	}
	p, err := c.d.Products.GetByID(ctx, id)
	switch {
	case errors.Is(err, product.ErrNotFound):
		c.println("Produto não encontrado!")
		return nil
	case err != nil:
		c.fail("buscar produto", err)
		return nil
	}

	ok, err := c.confirm("Tem certeza que deseja excluir " + p.Name + "?")
	if err != nil {
		return err
	}
	if !ok {
		c.println("Operação cancelada.")
		return nil
	}
	if err := c.d.Products.Delete(ctx, p.ID); err != nil {
		c.fail("excluir produto", err)
		return nil
	}
	c.println("Produto excluído com sucesso!")
	return nil
}
