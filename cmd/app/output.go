package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/application"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/ui"
)

func printJSON(v any) error {
	b, err := jsonMarshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func formatMillis(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
}

func printPatterns(items []ui.PatternLink) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{strconv.Itoa(item.Number), item.Key, item.Title, "/patterns/" + item.Key})
	}
	printTable([]string{"#", "KEY", "TITLE", "PATH"}, rows)
}

func printLatencies(items []application.KindLatency) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{string(item.Kind), formatMillis(item.Latency)})
	}
	printTable([]string{"KIND", "LATENCY"}, rows)
}

func printProduct(p domain.Product) {
	printKV([][2]string{
		{"id", uintToString(p.ID)},
		{"name", p.Name},
		{"price", "$" + p.Price.StringFixed(2)},
		{"description", p.Description},
		{"rating", fmt.Sprintf("%.1f/5 from %d reviews", ui.AverageRating(p.Reviews), len(p.Reviews))},
	})
	if len(p.Specs) > 0 {
		fmt.Println()
		rows := make([][]string, 0, len(p.Specs))
		for _, s := range p.Specs {
			rows = append(rows, []string{s.Label, s.Value})
		}
		printTable([]string{"SPEC", "VALUE"}, rows)
	}
}

func printCart(c cartView) {
	rows := make([][]string, 0, len(c.Items)+1)
	for _, item := range c.Items {
		rows = append(rows, []string{item.Name, strconv.Itoa(item.Quantity), "$" + item.Price.StringFixed(2), "$" + item.Subtotal().StringFixed(2)})
	}
	if len(rows) > 0 {
		rows = append(rows, []string{"Total", "", "", "$" + c.Total.StringFixed(2)})
	}
	printTable([]string{"ITEM", "QTY", "PRICE", "SUBTOTAL"}, rows)
}

func printTheme(t domain.ThemePageContent) {
	printKV([][2]string{
		{"header", t.HeaderTitle},
		{"nav", strings.Join(t.NavItems, ", ")},
		{"title", t.Title},
		{"features", strings.Join(t.Features, "; ")},
		{"footer", fmt.Sprintf("%s - %d", t.FooterText, t.Year)},
	})
}

func printDashboard(d application.DashboardSnapshot) {
	stats := make([][2]string, 0, 4)
	for _, s := range d.Stats.Pairs() {
		stats = append(stats, [2]string{s.Label, s.Value})
	}
	printKV(stats)

	fmt.Println()
	revenue := make([][]string, 0, len(d.Revenue))
	for _, p := range d.Revenue {
		revenue = append(revenue, []string{p.Month, fmt.Sprintf("$%dk", p.Value/1000)})
	}
	printTable([]string{"MONTH", "REVENUE"}, revenue)

	fmt.Println()
	orders := make([][]string, 0, len(d.Orders))
	for _, o := range d.Orders {
		orders = append(orders, []string{o.ID, o.Customer, "$" + o.Amount.StringFixed(2), o.Status, o.Date})
	}
	printTable([]string{"ORDER", "CUSTOMER", "AMOUNT", "STATUS", "DATE"}, orders)
}

func printPost(p domain.Post) {
	printKV([][2]string{{"id", uintToString(p.ID)}, {"title", p.Title}, {"author", p.Author}, {"date", p.Date}})
	for _, para := range p.Paragraphs() {
		fmt.Println()
		fmt.Println(para)
	}
}

func printComments(items []domain.Comment) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{uintToString(item.ID), item.Author, item.Time, item.Text})
	}
	printTable([]string{"ID", "AUTHOR", "WHEN", "TEXT"}, rows)
}

func printTimeline(res fetchResult) {
	printKV([][2]string{{"status", strconv.Itoa(res.Status)}, {"page", res.PageID}, {"total", formatMillis(res.Total)}})
	fmt.Println()
	rows := make([][]string, 0, len(res.Chunks))
	for _, c := range res.Chunks {
		rows = append(rows, []string{"+" + formatMillis(c.At), strconv.Itoa(c.Bytes), strings.Join(c.Labels, ", ")})
	}
	printTable([]string{"AT", "BYTES", "CONTENT"}, rows)
}
