package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"hmerize/pkg/api"
)

func IntsCSV(a []int) string {
	if len(a) == 0 {
		return ""
	}
	ss := make([]string, len(a))
	for i, v := range a {
		ss[i] = strconv.Itoa(v)
	}
	return strings.Join(ss, ",")
}

// KmerRows flattens one row per hmer.
func KmerRows(list []api.KmerResultV1) []string {
	var rows []string
	for _, r := range list {
		for _, h := range r.Hmers {
			rows = append(rows, fmt.Sprintf("%d\t%s\t%d\t%d\t%s\t%d\t%d",
				r.SequenceID, r.Name, h.Size, h.Hash, h.Kmer, h.First, h.Last))
		}
	}
	return rows
}

// PrimerRows flattens one row per (target, primer).
func PrimerRows(list []api.PrimerResultV1) []string {
	var rows []string
	for _, r := range list {
		for _, p := range r.Primers {
			rows = append(rows, fmt.Sprintf("%d\t%s\t%d\t%s\t%t\t%d\t%d",
				r.SequenceID, r.Name, p.PrimerID, p.PrimerName, p.Found, p.Matches, p.FirstPos))
		}
	}
	return rows
}

func TheoreticalRows(t api.TheoreticalV1) []string {
	rows := make([]string, 0, len(t.Hashes))
	for _, h := range t.Hashes {
		rows = append(rows, fmt.Sprintf("%d\t%d\t%s", h.Size, h.Hash, h.Kmer))
	}
	return rows
}

func LimitsRows(l api.LimitsV1) []string {
	return []string{fmt.Sprintf("%s\t%d\t%d\t%t\t%t\t%t\t%s",
		IntsCSV(l.Sizes), l.HashBits, l.Total, l.Overflow, l.Valid, l.Enumerable, l.Error)}
}

// WriteTSV writes an optional header line and then rows, newline-terminated.
func WriteTSV(w io.Writer, header string, rows []string, withHeader bool) error {
	if withHeader {
		if _, err := io.WriteString(w, header+"\n"); err != nil {
			return err
		}
	}
	for _, r := range rows {
		if _, err := io.WriteString(w, r+"\n"); err != nil {
			return err
		}
	}
	return nil
}
