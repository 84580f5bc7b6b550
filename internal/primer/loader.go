// internal/primer/loader.go
package primer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"hmerize/internal/record"
)

// LoadTSV reads a whitespace-separated file with
// id sequence
// Blank lines and lines starting with '#' are skipped. Records get sequential
// ids in file order; the first column becomes the name.
func LoadTSV(path string) ([]record.Named, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	list, err := ReadTSV(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// ReadTSV is LoadTSV over an open reader.
func ReadTSV(r io.Reader) ([]record.Named, error) {
	var list []record.Named
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) != 2 {
			return nil, fmt.Errorf("line %d: bad field count %d", ln, len(f))
		}
		list = append(list, record.Named{
			Record: record.New(uint64(len(list)), f[1]),
			Name:   f[0],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
