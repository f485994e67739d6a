package console

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/pizzaria/internal/domain/customer"
	"github.com/xenking/pizzaria/internal/domain/receipt"
)

func (c *Console) createCustomer(ctx context.Context) error {
	c.println("\n=== Cadastro de Cliente ===")
	var (
		cu  customer.Customer
		err error
	)
	if cu.Name, err = c.ask("Nome: "); err != nil {
		return err
	}
	if cu.Phone, err = c.ask("Telefone: "); err != nil {
		return err
	}
	if cu.CPF, err = c.ask("CPF: "); err != nil {
		return err
	}
	if cu.Address, err = c.ask("Endereço: "); err != nil {
		return err
	}
	cu.Normalize()
	if err := cu.Validate(); err != nil {
		c.fail("cadastrar cliente", err)
		return nil
	}

	switch err := c.d.Customers.Create(ctx, &cu); {
	case errors.Is(err, customer.ErrDuplicateCPF):
		c.println("CPF já cadastrado!")
	case err != nil:
		c.fail("cadastrar cliente", err)
	default:
		c.printf("Cliente cadastrado com sucesso! ID: %d\n", cu.ID)
	}
	return nil
}

func (c *Console) listCustomers(ctx context.Context) error {
	c.println("\n=== Lista de Clientes ===")
	list, err := c.d.Customers.List(ctx)
	if err != nil {
		c.fail("listar clientes", err)
		return nil
	}
	if len(list) == 0 {
		c.println("Nenhum cliente cadastrado.")
		return nil
	}
	for _, cu := range list {
		c.printf("ID: %d | %s | Tel: %s | CPF: %s | Endereço: %s\n", cu.ID, cu.Name, cu.Phone, cu.CPF, cu.Address)
	}
	return nil
}

// lookupCustomer lists customers, asks for an ID and loads it. A nil
// customer with a nil error means the lookup was reported to the user.
func (c *Console) lookupCustomer(ctx context.Context, prompt string) (*customer.Customer, error) {
	if err := c.listCustomers(ctx); err != nil {
		return nil, err
	}
	id, err := c.askInt(prompt)
	if err != nil {
		return nil, err
	}
	cu, err := c.d.Customers.GetByID(ctx, id)
	switch {
	case errors.Is(err, customer.ErrNotFound):
		c.println("Cliente não encontrado!")
		return nil, nil
	case err != nil:
		c.fail("buscar cliente", err)
		return nil, nil
	}
	return cu, nil
}

func (c *Console) updateCustomer(ctx context.Context) error {
	c.println("\n=== Atualizar Cliente ===")
	cu, err := c.lookupCustomer(ctx, "ID do cliente a atualizar: ")
	if err != nil || cu == nil {
		return err
	}

	c.printf("\nCliente atual: %s | Tel: %s | CPF: %s | Endereço: %s\n", cu.Name, cu.Phone, cu.CPF, cu.Address)
	c.println("Deixe em branco para manter o valor atual.")
	fields := []struct {
		label string
		value *string
	}{
		{"Novo nome", &cu.Name},
		{"Novo telefone", &cu.Phone},
		{"Novo CPF", &cu.CPF},
		{"Novo endereço", &cu.Address},
	}
	for _, f := range fields {
		v, err := c.ask(f.label + " [" + *f.value + "]: ")
		if err != nil {
			return err
		}
		if v != "" {
			*f.value = v
		}
	}

	switch err := c.d.Customers.Update(ctx, cu); {
	case errors.Is(err, customer.ErrDuplicateCPF):
		c.println("CPF já cadastrado!")
	case err != nil:
		c.fail("atualizar cliente", err)
	default:
		c.println("Cliente atualizado com sucesso!")
	}
	return nil
}

func (c *Console) deleteCustomer(ctx context.Context) error {
	c.println("\n=== Excluir Cliente ===")
	cu, err := c.lookupCustomer(ctx, "ID do cliente a excluir: ")
	if err != nil || cu == nil {
		return err
	}
	ok, err := c.confirm("Tem certeza que deseja excluir " + cu.Name + "?")
	if err != nil {
		return err
	}
	if !ok {
		c.println("Operação cancelada.")
		return nil
	}
	if err := c.d.Customers.Delete(ctx, cu.ID); err != nil {
		c.fail("excluir cliente", err)
		return nil
	}
	c.println("Cliente excluído com sucesso!")
	return nil
}

func (c *Console) customerHistory(ctx context.Context) error {
	c.println("\n=== Histórico de Compras do Cliente ===")
	if err := c.listCustomers(ctx); err != nil {
		return err
	}
	id, err := c.askInt("ID do cliente: ")
	if err != nil {
		return err
	}
	list, err := c.d.Orders.ListByCustomer(ctx, id)
	if err != nil {
		c.fail("buscar histórico", err)
		return nil
	}
	if len(list) == 0 {
		c.println("Nenhum pedido encontrado para este cliente.")
		return nil
	}
	for _, o := range list {
		c.printf("Pedido #%d | %s | Total: R$ %s | Itens: %s\n",
			o.ID, receipt.FormatDate(o.CreatedAt, c.d.Location), o.Total.StringFixed(2), o.Items)
	}
	return nil
}
