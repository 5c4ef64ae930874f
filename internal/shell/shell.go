package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"order-processing/internal/models"
	"order-processing/internal/order"
)

const mainMenu = `Order Processing System
======================
1. Process a new order
2. Process example orders
3. Exit

Select an option (1-3): `

const productMenu = `
Add Product
===========
Available Product Types:
1. Physical Product
2. Book
3. Membership
4. Membership Upgrade
5. Video
0. Finish adding products

Select product type (0-5): `

const pressEnter = "\nPress Enter to continue..."

// Dispatcher processes one order; *order.Service satisfies it.
type Dispatcher interface {
	ProcessOrder(ctx context.Context, order *models.Order) error
}

type Shell struct {
	in         *bufio.Scanner
	out        io.Writer
	dispatcher Dispatcher
	newID      func() int

	startReader sync.Once
	lines       chan string
	readErr     error
}

type Option func(*Shell)

// WithIDSource replaces the random order and product id generator.
func WithIDSource(fn func() int) Option {
	return func(s *Shell) { s.newID = fn }
}

func New(in io.Reader, out io.Writer, d Dispatcher, opts ...Option) *Shell {
	s := &Shell{
		in:         bufio.NewScanner(in),
		out:        out,
		dispatcher: d,
		newID:      func() int { return 1000 + rand.IntN(9000) },
		lines:      make(chan string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run shows the main menu until the user exits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	err := s.loop(ctx)
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Shell) loop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, mainMenu)
		line, err := s.readLine(ctx)
		if err != nil {
			return err
		}
		choice, err := strconv.Atoi(line)
		if err != nil {
			continue
		}

		switch choice {
		case 1:
			err = s.newOrder(ctx)
		case 2:
			err = s.exampleOrders(ctx)
		case 3:
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid option. Press Enter to continue...")
			_, err = s.readLine(ctx)
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) newOrder(ctx context.Context) error {
	fmt.Fprintln(s.out, "New Order Entry")
	fmt.Fprintln(s.out, "==============")

	o := &models.Order{ID: s.newID()}

	customer, err := s.prompt(ctx, "Enter Customer ID (or press Enter to skip): ")
	if err != nil {
		return err
	}
	o.CustomerID = models.Some(customer)

	agent, err := s.prompt(ctx, "Enter Agent ID (or press Enter to skip): ")
	if err != nil {
		return err
	}
	o.AgentID = models.Some(agent)

	for {
		fmt.Fprint(s.out, productMenu)
		line, err := s.readLine(ctx)
		if err != nil {
			return err
		}
		choice, err := strconv.Atoi(line)
		if err != nil {
			continue
		}
		if choice == 0 {
			break
		}
		if choice < 1 || choice > len(models.ProductTypes()) {
			continue
		}

		p, err := s.readProduct(ctx, models.ProductType(choice-1))
		if err != nil {
			return err
		}
		o.Products = append(o.Products, p)
		fmt.Fprintln(s.out, "Product added successfully!")
	}

	if len(o.Products) > 0 {
		fmt.Fprint(s.out, "\nProcessing Order...\n\n")
		s.dispatch(ctx, o)
	} else {
		fmt.Fprintln(s.out, "\nNo products added to the order.")
	}

	fmt.Fprint(s.out, pressEnter)
	_, err = s.readLine(ctx)
	return err
}

func (s *Shell) readProduct(ctx context.Context, pt models.ProductType) (models.Product, error) {
	p := models.Product{ID: s.newID(), Type: pt}

	name, err := s.prompt(ctx, "Enter product name: ")
	if err != nil {
		return models.Product{}, err
	}
	p.Name = name

	for {
		raw, err := s.prompt(ctx, "Enter price: ")
		if err != nil {
			return models.Product{}, err
		}
		price, err := decimal.NewFromString(raw)
		if err != nil || price.IsNegative() {
			fmt.Fprintln(s.out, "Invalid price, try again.")
			continue
		}
		p.Price = price
		return p, nil
	}
}

func (s *Shell) exampleOrders(ctx context.Context) error {
	fmt.Fprint(s.out, "Processing Example Orders...\n\n")
	for _, o := range order.ExampleOrders() {
		s.dispatch(ctx, o)
		fmt.Fprintln(s.out, strings.Repeat("-", 50))
	}

	fmt.Fprint(s.out, pressEnter)
	_, err := s.readLine(ctx)
	return err
}

func (s *Shell) dispatch(ctx context.Context, o *models.Order) {
	if err := s.dispatcher.ProcessOrder(ctx, o); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *Shell) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(s.out, label)
	return s.readLine(ctx)
}

// readLine returns the next trimmed input line, io.EOF when input ends, or
// the context error once ctx is done, even while a read is still pending.
func (s *Shell) readLine(ctx context.Context) (string, error) {
	s.startReader.Do(func() { go s.scan(ctx) })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			if s.readErr != nil {
				return "", fmt.Errorf("read input: %w", s.readErr)
			}
			return "", io.EOF
		}
		return line, nil
	}
}

// scan feeds input lines to readLine and closes lines when input ends.
func (s *Shell) scan(ctx context.Context) {
	defer close(s.lines)
	for s.in.Scan() {
		select {
		case s.lines <- strings.TrimSpace(s.in.Text()):
		case <-ctx.Done():
			return
		}
	}
	s.readErr = s.in.Err()
}
