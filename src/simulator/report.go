package simulator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Report is the summary the pPIM simulator prints for one program.
type Report struct {
	RunID string `json:"run_id"`
	File  string `json:"file"`

	TotalInstructions int `json:"total_instructions"`
	Prog              int `json:"prog"`
	Read              int `json:"read"`
	Write             int `json:"write"`
	Compute           int `json:"compute"`

	TotalCycles      int     `json:"total_cycles"`
	SequentialTimeUs float64 `json:"sequential_time_us"`
	ParallelTimeUs   float64 `json:"parallel_time_us"`
}

const (
	reportBanner    = "=== pPIM Simulation for "
	reportBannerEnd = " ==="
)

// Format writes the report in the simulator's text layout.
func (report Report) Format(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s%s%s\n"+
		"Total instructions: %d\n"+
		"  PROG instructions: %d\n"+
		"  READ instructions: %d\n"+
		"  WRITE instructions: %d\n"+
		"  COMPUTE instructions: %d\n"+
		"\n"+
		"Total cycles: %d\n"+
		"Sequential execution time: %g microseconds\n"+
		"Parallel execution time: %g microseconds\n"+
		"\n",
		reportBanner, report.File, reportBannerEnd,
		report.TotalInstructions, report.Prog, report.Read, report.Write, report.Compute,
		report.TotalCycles, report.SequentialTimeUs, report.ParallelTimeUs)
	return err
}

// ParseReports reads every report block from simulator output. Lines outside
// a block are ignored.
func ParseReports(r io.Reader) ([]Report, error) {
	var reports []Report
	var current *Report

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, reportBanner) {
			reports = append(reports, Report{
				File: strings.TrimSuffix(strings.TrimPrefix(line, reportBanner), reportBannerEnd),
			})
			current = &reports[len(reports)-1]
			continue
		}
		if current == nil {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		var err error
		switch key {
		case "Total instructions":
			current.TotalInstructions, err = strconv.Atoi(value)
		case "PROG instructions":
			current.Prog, err = strconv.Atoi(value)
		case "READ instructions":
			current.Read, err = strconv.Atoi(value)
		case "WRITE instructions":
			current.Write, err = strconv.Atoi(value)
		case "COMPUTE instructions":
			current.Compute, err = strconv.Atoi(value)
		case "Total cycles":
			current.TotalCycles, err = strconv.Atoi(value)
		case "Sequential execution time":
			current.SequentialTimeUs, err = parseMicroseconds(value)
		case "Parallel execution time":
			current.ParallelTimeUs, err = parseMicroseconds(value)
		}
		if err != nil {
			return nil, fmt.Errorf("parse simulator output %q: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, errors.New("simulator output contains no report")
	}
	return reports, nil
}

func parseMicroseconds(value string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(value, "microseconds")), 64)
}
