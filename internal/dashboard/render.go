package dashboard

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"design-order-bot/internal/order"

	"github.com/fatih/color"
)

var statusColors = map[order.Status]*color.Color{
	order.StatusNew:            color.New(color.FgBlue),
	order.StatusPendingContact: color.New(color.FgMagenta),
	order.StatusInProgress:     color.New(color.FgYellow),
	order.StatusCompleted:      color.New(color.FgGreen),
	order.StatusCancelled:      color.New(color.FgRed),
}

const timeLayout = "02.01.2006 15:04"

// Render выводит счетчики и таблицу заказов под текущим фильтром
func (c *Controller) Render(w io.Writer) error {
	stats := c.Stats()
	visible := c.Visible()

	parts := []string{fmt.Sprintf("Всего заказов: %d", stats.Total)}
	for _, s := range order.Statuses {
		parts = append(parts, fmt.Sprintf("%s: %d", s.Label(), stats.ByStatus[s]))
	}
	if _, err := fmt.Fprintln(w, strings.Join(parts, " | ")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Фильтр: %s, показано %d\n\n", c.Filter(), len(visible)); err != nil {
		return err
	}

	if len(visible) == 0 {
		_, err := fmt.Fprintln(w, "Заказов нет")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tСоздан\tУслуга\tТариф\tКлиент\tСтатус")
	for _, o := range visible {
		// цвет в последней колонке, чтобы escape-коды не ломали выравнивание
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			o.ID,
			o.CreatedAt.Local().Format(timeLayout),
			truncate(o.Service, 32),
			o.Tariff,
			client(o),
			statusColor(o.Status).Sprint(o.Status.Label()),
		)
	}
	return tw.Flush()
}

// RenderOrder - карточка заказа со всеми полями анкеты
func RenderOrder(w io.Writer, o order.Order) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Заказ", fmt.Sprintf("#%d", o.ID)},
		{"Статус", statusColor(o.Status).Sprint(o.Status.Label())},
		{"Клиент", client(o)},
		{"Услуга", o.Service},
		{"Тариф", o.Tariff},
		{"Ссылка", o.Link},
		{"Аудитория", o.Audience},
		{"Преимущества", o.Advantages},
		{"Референсы", o.References},
		{"Сроки", o.Deadline},
		{"Создан", o.CreatedAt.Local().Format(timeLayout)},
		{"Обновлен", o.UpdatedAt.Local().Format(timeLayout)},
	}
	for _, r := range rows {
		value := strings.ReplaceAll(r[1], "\n", "\n\t")
		fmt.Fprintf(tw, "%s:\t%s\n", r[0], value)
	}
	return tw.Flush()
}

func RenderNotice(w io.Writer, n Notice) {
	title := color.New(color.FgGreen, color.Bold)
	if n.Err {
		title = color.New(color.FgRed, color.Bold)
	}
	fmt.Fprintf(w, "%s %s\n", title.Sprint(n.Title+":"), n.Text)
}

func statusColor(s order.Status) *color.Color {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return color.New(color.Reset)
}

func client(o order.Order) string {
	if o.TelegramUsername != "" {
		return "@" + o.TelegramUsername
	}
	return fmt.Sprintf("id%d", o.TelegramUserID)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
