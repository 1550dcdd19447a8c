package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"design-order-bot/internal/dashboard"
	"design-order-bot/internal/errs"
	"design-order-bot/internal/order"

	"github.com/kballard/go-shellquote"
)

const helpText = `Команды:
  refresh                  перечитать заказы
  list                     показать заказы под фильтром
  filter <статус|all>      фильтр по статусу
  status <id> <статус>     сменить статус заказа
  show <id>                карточка заказа
  delete <id> [-y]         удалить заказ
  help                     эта справка
  quit                     выход
Статусы: new, pending_contact, in_progress, completed, cancelled`

var errQuit = errors.New("quit")

// console - команды оператора поверх контроллера панели
type console struct {
	ctl     *dashboard.Controller
	in      *bufio.Scanner
	out     io.Writer
	timeout time.Duration
	// фоновое обновление, может быть nil
	job refreshState
}

type refreshState interface {
	LastError() error
}

func newConsole(ctl *dashboard.Controller, in io.Reader, out io.Writer, timeout time.Duration) *console {
	return &console{
		ctl:     ctl,
		in:      bufio.NewScanner(in),
		out:     out,
		timeout: timeout,
	}
}

// run читает команды до quit или конца ввода
func (c *console) run() {
	for {
		fmt.Fprint(c.out, "> ")
		if !c.in.Scan() {
			fmt.Fprintln(c.out)
			return
		}

		err := c.exec(c.in.Text())
		if errors.Is(err, errQuit) {
			return
		}
		if err != nil {
			fmt.Fprintln(c.out, err)
		}
	}
}

func (c *console) exec(line string) error {
	args, err := shellquote.Split(line)
	if err != nil {
		return fmt.Errorf("не удалось разобрать команду: %w", err)
	}
	if len(args) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	cmd, args := args[0], args[1:]
	switch cmd {
	case "refresh", "r":
		err := c.ctl.Refresh(ctx)
		c.notice(dashboard.OpLoad, err)
		if err == nil {
			return c.ctl.Render(c.out)
		}
		return nil

	case "list", "ls":
		if c.job != nil {
			if err := c.job.LastError(); err != nil {
				c.notice(dashboard.OpLoad, err)
			}
		}
		return c.ctl.Render(c.out)

	case "filter":
		if len(args) != 1 {
			return errors.New("использование: filter <статус|all>")
		}
		if err := c.ctl.SetFilter(args[0]); err != nil {
			return err
		}
		return c.ctl.Render(c.out)

	case "status":
		if len(args) != 2 {
			return errors.New("использование: status <id> <статус>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		status, err := order.ParseStatus(args[1])
		if err != nil {
			return err
		}
		err = c.ctl.UpdateStatus(ctx, id, status)
		c.notice(dashboard.OpUpdateStatus, err)
		return c.ctl.Render(c.out)

	case "show":
		if len(args) != 1 {
			return errors.New("использование: show <id>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		o, ok := c.ctl.Get(id)
		if !ok {
			return errs.NewNotFoundError("id", id)
		}
		return dashboard.RenderOrder(c.out, o)

	case "delete", "rm":
		if len(args) < 1 || len(args) > 2 {
			return errors.New("использование: delete <id> [-y]")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if !(len(args) == 2 && args[1] == "-y") && !c.confirm(fmt.Sprintf("Удалить заказ #%d? [y/N] ", id)) {
			fmt.Fprintln(c.out, "Отменено")
			return nil
		}
		err = c.ctl.Delete(ctx, id)
		c.notice(dashboard.OpDelete, err)
		return c.ctl.Render(c.out)

	case "help", "?":
		fmt.Fprintln(c.out, helpText)
		return nil

	case "quit", "exit", "q":
		return errQuit
	}

	return fmt.Errorf("неизвестная команда %q, help - список команд", cmd)
}

func (c *console) notice(op dashboard.Op, err error) {
	dashboard.RenderNotice(c.out, dashboard.NoticeFor(op, err))
}

func (c *console) confirm(prompt string) bool {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(c.in.Text()))
	return answer == "y" || answer == "yes" || answer == "д" || answer == "да"
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewValidationErrorWithCause("id", fmt.Errorf("%q is not an order id", s))
	}
	return id, nil
}
