package writers

import (
	"io"

	"hmerize/internal/output"
	"hmerize/pkg/api"
)

func init() { Register("tsv", writeTSV) }

func writeTSV(w io.Writer, payload any, opt Options) error {
	switch v := payload.(type) {
	case []api.KmerResultV1:
		return output.WriteTSV(w, output.KmerTSVHeader, output.KmerRows(v), opt.Header)
	case []api.PrimerResultV1:
		return output.WriteTSV(w, output.PrimerTSVHeader, output.PrimerRows(v), opt.Header)
	case api.TheoreticalV1:
		return output.WriteTSV(w, output.TheoreticalTSVHeader, output.TheoreticalRows(v), opt.Header)
	case api.LimitsV1:
		return output.WriteTSV(w, output.LimitsTSVHeader, output.LimitsRows(v), opt.Header)
	default:
		return unsupported("tsv", payload)
	}
}
