package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/delaycast/delaycast/internal/contract"
	"github.com/delaycast/delaycast/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		if math.IsNaN(v) {
			return "NaN"
		}
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// formatOrder renders a model order the conventional way, e.g. ARIMA(1,0,2).
func formatOrder(o schema.ModelOrder) string {
	base := fmt.Sprintf("ARIMA(%d,%d,%d)", o.P, o.D, o.Q)
	if o.SeasonalPeriod > 0 && (o.SeasonalP > 0 || o.SeasonalQ > 0) {
		return fmt.Sprintf("%s(%d,0,%d)[%d]", base, o.SeasonalP, o.SeasonalQ, o.SeasonalPeriod)
	}
	return base
}

// formatCoeffs renders a coefficient slice for table display.
func formatCoeffs(coeffs []float64, fmtFloat func(float64) string) string {
	if len(coeffs) == 0 {
		return "-"
	}
	parts := make([]string, len(coeffs))
	for i, c := range coeffs {
		parts[i] = fmtFloat(c)
	}
	return strings.Join(parts, ", ")
}

// formatLags renders a lag list like "1,3,7" or "-" when empty.
func formatLags(lags []int) string {
	if len(lags) == 0 {
		return "-"
	}
	parts := make([]string, len(lags))
	for i, lag := range lags {
		parts[i] = fmt.Sprintf("%d", lag)
	}
	return strings.Join(parts, ",")
}

// verdictLabel picks the colored or plain verdict label based on config.
func verdictLabel(v schema.Verdict, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorVerdict(v)
	}
	return contract.GetPlainVerdict(v)
}

// boolVerdict maps a passed/failed boolean onto a verdict.
func boolVerdict(ok bool) schema.Verdict {
	if ok {
		return schema.PassVerdict
	}
	return schema.FailVerdict
}

// getTableWidth returns the terminal width to render tables against.
func getTableWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}

	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// maxGridRows caps how many lambda grid rows and selection candidates are
// shown in table output; narrow terminals get fewer rows.
func maxGridRows(cfg *contract.Config) int {
	if getTableWidth(cfg) < 100 {
		return 5
	}
	return 10
}
