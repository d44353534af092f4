package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
)

func colorPrintLn(c *color.Color, a ...any) {
	_, _ = c.Println(a...)
}

func colorPrintf(c *color.Color, format string, a ...any) {
	_, _ = c.Printf(format, a...)
}

func renderReport(rep report, jobs int64) {
	fmt.Println()
	colorPrintLn(bold, "═══════════════════════════════════════════════════════════")
	colorPrintf(bold, "Pool %d: %d threads booted in %s\n", rep.generation, rep.threads, rep.bootTime)
	colorPrintLn(bold, "═══════════════════════════════════════════════════════════")

	want := jobs * (jobs - 1) / 2
	if rep.sum == want {
		colorPrintf(green, "sum(0..%d) = %d in %s\n", jobs, rep.sum, rep.runTime)
	} else {
		colorPrintf(red, "sum(0..%d) = %d, expected %d\n", jobs, rep.sum, want)
	}
	if rep.spawned != int64(rep.threads) {
		colorPrintf(yellow, "%d of %d spawned jobs ran\n", rep.spawned, rep.threads)
	}
	fmt.Println()

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Thread", "Executed", "Stolen", "Panics", "Queued")
	for _, s := range rep.stats {
		_ = table.Append(
			strconv.Itoa(s.Index),
			strconv.FormatInt(s.Executed, 10),
			strconv.FormatInt(s.Stolen, 10),
			strconv.FormatInt(s.Panics, 10),
			strconv.Itoa(s.Queued),
		)
	}
	_ = table.Render()

	for _, f := range rep.failures {
		colorPrintLn(red, f.Error())
	}
}

func renderMetrics(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	fmt.Println()
	colorPrintLn(bold, "Handoff metrics")

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Metric", "Labels", "Value")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}

			value := m.GetCounter().GetValue()
			if g := m.GetGauge(); g != nil {
				value = g.GetValue()
			}
			_ = table.Append(mf.GetName(), strings.Join(labels, ","), strconv.FormatFloat(value, 'f', -1, 64))
		}
	}
	return table.Render()
}
