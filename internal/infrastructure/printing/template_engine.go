package printing

import (
	"bytes"
	"context"
	_ "embed"
	"html/template"
	"maps"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/invoice.html
var defaultInvoiceTemplate string

// TemplateEngine renders HTML documents with html/template and formatting
// functions for Indian currency and GST rates.
type TemplateEngine struct {
	funcMap         template.FuncMap
	invoiceTemplate string
	invoice         *template.Template
	parseErr        error
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithInvoiceTemplate replaces the built-in invoice template
func WithInvoiceTemplate(content string) TemplateEngineOption {
	return func(e *TemplateEngine) {
		if strings.TrimSpace(content) != "" {
			e.invoiceTemplate = content
		}
	}
}

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a new template engine with default configuration
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{invoiceTemplate: defaultInvoiceTemplate}

	e.funcMap = template.FuncMap{
		// Money
		"formatMoney":    formatMoney,
		"formatMoneyRaw": formatMoneyRaw,
		"amountInWords":  amountInWords,

		// Dates
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,

		// Numbers
		"formatDecimal": formatDecimal,
		"formatPercent": formatPercent,

		// Strings
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"title":    titleCase,
		"trim":     strings.TrimSpace,
		"truncate": truncate,

		// Arithmetic
		"add":      add,
		"sub":      sub,
		"mul":      mul,
		"sum":      sum,
		"sumField": sumField,

		// Conditionals
		"default":  defaultFunc,
		"ternary":  ternary,
		"empty":    empty,
		"notEmpty": notEmpty,

		"shortUUID":  shortUUID,
		"statusText": statusText,
	}

	for _, opt := range opts {
		opt(e)
	}
	e.invoice, e.parseErr = template.New("invoice").Funcs(e.funcMap).Parse(e.invoiceTemplate)
	return e
}

// RenderInvoice renders an invoice document to a complete HTML page
func (e *TemplateEngine) RenderInvoice(ctx context.Context, doc *InvoiceDocument) (string, error) {
	if doc == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "invoice document is nil", nil)
	}
	if e.parseErr != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "failed to parse invoice template", e.parseErr)
	}
	var buf bytes.Buffer
	if err := e.invoice.Execute(&buf, doc); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute invoice template", err)
	}
	return buf.String(), nil
}

// RenderString renders a template string with the provided data
func (e *TemplateEngine) RenderString(ctx context.Context, name, content string, data any) (string, error) {
	if content == "" {
		return "", NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// GetFuncMap returns a copy of the template function map
func (e *TemplateEngine) GetFuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

// =============================================================================
// Money
// =============================================================================

// formatMoney formats a value in rupees with Indian digit grouping.
// Example: 1234567.5 -> "₹12,34,567.50"
func formatMoney(v any) string {
	d := toDecimal(v)
	if d.IsNegative() {
		return "-₹" + formatMoneyRaw(d.Abs())
	}
	return "₹" + formatMoneyRaw(d)
}

// formatMoneyRaw groups the last three integer digits, then pairs.
// Example: 1234567.5 -> "12,34,567.50"
func formatMoneyRaw(v any) string {
	d := toDecimal(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	intPart, decPart, _ := strings.Cut(d.StringFixed(2), ".")

	if len(intPart) <= 3 {
		return sign + intPart + "." + decPart
	}
	head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return sign + strings.Join(groups, ",") + "," + tail + "." + decPart
}

var (
	smallNumbers = []string{
		"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
		"Seventeen", "Eighteen", "Nineteen",
	}
	tensNames = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

// amountInWords spells a rupee amount using the Indian numbering system.
// Example: 123456.78 -> "Rupees One Lakh Twenty Three Thousand Four Hundred
// Fifty Six and Seventy Eight Paise Only"
func amountInWords(v any) string {
	d := toDecimal(v).Abs().Round(2)
	paise := d.Mul(decimal.NewFromInt(100)).IntPart()
	rupees, rest := paise/100, paise%100

	var b strings.Builder
	b.WriteString("Rupees ")
	b.WriteString(numberToWords(rupees))
	if rest > 0 {
		b.WriteString(" and ")
		b.WriteString(numberToWords(rest))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

func numberToWords(n int64) string {
	if n == 0 {
		return smallNumbers[0]
	}
	var parts []string
	if crore := n / 10000000; crore > 0 {
		parts = append(parts, numberToWords(crore), "Crore")
		n %= 10000000
	}
	if lakh := n / 100000; lakh > 0 {
		parts = append(parts, belowHundred(lakh), "Lakh")
		n %= 100000
	}
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, belowHundred(thousand), "Thousand")
		n %= 1000
	}
	if hundred := n / 100; hundred > 0 {
		parts = append(parts, smallNumbers[hundred], "Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, belowHundred(n))
	}
	return strings.Join(parts, " ")
}

func belowHundred(n int64) string {
	if n < 20 {
		return smallNumbers[n]
	}
	if n%10 == 0 {
		return tensNames[n/10]
	}
	return tensNames[n/10] + " " + smallNumbers[n%10]
}

// =============================================================================
// Dates and numbers
// =============================================================================

// formatDate formats a time value as an invoice date
// Example: "15 Jan 2026"
func formatDate(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}

// formatDateTime formats a time value with hours and minutes
func formatDateTime(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006 15:04")
}

// formatDecimal formats a decimal with specified precision
func formatDecimal(v any, precision int) string {
	return toDecimal(v).StringFixed(int32(precision))
}

// formatPercent renders a rate already expressed in percent.
// Example: 18 -> "18%", 2.5 -> "2.5%"
func formatPercent(v any) string {
	return toDecimal(v).String() + "%"
}

// truncate truncates a string to max runes with a trailing ellipsis
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// titleCase converts string to title case using proper Unicode handling
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

func add(a, b any) decimal.Decimal {
	return toDecimal(a).Add(toDecimal(b))
}

func sub(a, b any) decimal.Decimal {
	return toDecimal(a).Sub(toDecimal(b))
}

func mul(a, b any) decimal.Decimal {
	return toDecimal(a).Mul(toDecimal(b))
}

func sum(vals ...any) decimal.Decimal {
	result := decimal.Zero
	for _, v := range vals {
		result = result.Add(toDecimal(v))
	}
	return result
}

// sumField sums a field from a slice of structs
// Usage in template: {{ sumField .Lines "Total" }}
func sumField(slice any, field string) decimal.Decimal {
	result := decimal.Zero
	rv := reflect.ValueOf(slice)
	if rv.Kind() != reflect.Slice {
		return result
	}
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		if elem.Kind() == reflect.Ptr {
			elem = elem.Elem()
		}
		if elem.Kind() != reflect.Struct {
			continue
		}
		if fv := elem.FieldByName(field); fv.IsValid() {
			result = result.Add(toDecimal(fv.Interface()))
		}
	}
	return result
}

// =============================================================================
// Conditionals
// =============================================================================

func empty(v any) bool {
	if v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case int:
		return val == 0
	case int64:
		return val == 0
	case bool:
		return !val
	case decimal.Decimal:
		return val.IsZero()
	}
	return false
}

func notEmpty(v any) bool {
	return !empty(v)
}

func defaultFunc(val, def any) any {
	if empty(val) {
		return def
	}
	return val
}

func ternary(condition bool, trueVal, falseVal any) any {
	if condition {
		return trueVal
	}
	return falseVal
}

func shortUUID(id uuid.UUID) string {
	return id.String()[:8]
}

// statusText turns a snake_case code into a label: "bank_transfer" -> "Bank Transfer"
func statusText(status string) string {
	if status == "" {
		return ""
	}
	switch strings.ToLower(status) {
	case "upi":
		return "UPI"
	}
	return titleCase(strings.ReplaceAll(status, "_", " "))
}

// =============================================================================
// Helper Functions
// =============================================================================

// toDecimal converts various types to decimal.Decimal
func toDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case int:
		return decimal.NewFromInt(int64(val))
	case int32:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// toTime converts various types to time.Time
func toTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	case string:
		for _, f := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(f, val); err == nil {
				return t
			}
		}
		return time.Time{}
	default:
		return time.Time{}
	}
}

