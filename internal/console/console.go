// Package console is the interactive text menu of the pizzeria. It reads
// answers line by line from any io.Reader and prints to any io.Writer.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/pizzaria/internal/domain/customer"
	"github.com/xenking/pizzaria/internal/domain/order"
	"github.com/xenking/pizzaria/internal/domain/product"
	"github.com/xenking/pizzaria/internal/domain/report"
)

// OrderPlacer is implemented by *order.Service.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req order.PlaceOrderRequest) (*order.PlaceOrderResult, error)
}

// Deps lists the stores and the order service the menu works against.
type Deps struct {
	Customers customer.Repository
	Products  product.Repository
	Orders    order.Repository
	Reports   report.Repository
	Placer    OrderPlacer
	// Location is used to print order dates; nil means time.Local.
	Location *time.Location
}

// Console runs the menu loop.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
	d   Deps
}

// New returns a Console reading from in and writing to out.
func New(in io.Reader, out io.Writer, d Deps) *Console {
	if d.Location == nil {
		d.Location = time.Local
	}
	return &Console{in: bufio.NewScanner(in), out: out, d: d}
}

// Run shows the main menu until the user picks 0, the input ends or ctx is
// cancelled. Store errors are reported to the user and do not stop the loop.
func (c *Console) Run(ctx context.Context) error {
	c.println("=== SISTEMA PIZZARIA ===")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.println("")
		c.println("1. Clientes")
		c.println("2. Produtos")
		c.println("3. Pedidos")
		c.println("4. Relatórios")
		c.println("5. Histórico de Compras")
		c.println("0. Sair")

		choice, err := c.ask("Escolha uma opção: ")
		if err != nil {
			return eof(err)
		}

		switch choice {
		case "1":
			err = c.submenu(ctx, "\n1. Cadastrar Cliente\n2. Listar Clientes\n3. Atualizar Cliente\n4. Excluir Cliente\n0. Voltar",
				map[string]func(context.Context) error{
					"1": c.createCustomer,
					"2": c.listCustomers,
					"3": c.updateCustomer,
					"4": c.deleteCustomer,
				})
		case "2":
			err = c.submenu(ctx, "\n1. Cadastrar Produto\n2. Listar Produtos\n3. Excluir Produto\n0. Voltar",
				map[string]func(context.Context) error{
					"1": c.createProduct,
					"2": c.listProducts,
					"3": c.deleteProduct,
				})
		case "3":
			err = c.submenu(ctx, "\n1. Novo Pedido\n2. Listar Pedidos\n0. Voltar",
				map[string]func(context.Context) error{
					"1": c.placeOrder,
					"2": c.listOrders,
				})
		case "4":
			err = c.salesReport(ctx)
		case "5":
			err = c.customerHistory(ctx)
		case "0":
			c.println("Saindo...")
			return nil
		default:
			c.println("Opção inválida!")
		}
		if err != nil {
			return eof(err)
		}
	}
}

func (c *Console) submenu(ctx context.Context, text string, actions map[string]func(context.Context) error) error {
	c.println(text)
	choice, err := c.ask("> ")
	if err != nil {
		return err
	}
	if action, ok := actions[choice]; ok {
		return action(ctx)
	}
	return nil
}

// eof treats the end of input as a normal exit.
func eof(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Console) println(s string) {
	_, _ = fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// ask prints prompt and returns the next trimmed input line.
func (c *Console) ask(prompt string) (string, error) {
	c.printf("%s", prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", errors.Wrap(err, "read input")
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// askInt repeats the prompt until an integer is entered.
func (c *Console) askInt(prompt string) (int64, error) {
	for {
		s, err := c.ask(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return n, nil
		}
		c.println("Digite um número inteiro.")
	}
}

// confirm asks a s/n question; only "s" confirms.
func (c *Console) confirm(prompt string) (bool, error) {
	s, err := c.ask(prompt + " (s/n): ")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(s, "s"), nil
}

// fail reports a store error to the user.
func (c *Console) fail(what string, err error) {
	c.printf("Erro ao %s: %v\n", what, err)
}
