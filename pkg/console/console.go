package console

import (
	"fmt"
	"strings"
	"sync"

	"github.com/diillson/aws-cost-trends/internal/domain/entity"
	"github.com/diillson/aws-cost-trends/internal/shared/types"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
)

// Console é uma implementação do ConsoleInterface.
type Console struct {
	logger *pterm.Logger
}

// NewConsole cria um novo Console. Mensagens de debug ficam ocultas até EnableDebug.
func NewConsole() *Console {
	logger := pterm.DefaultLogger.WithLevel(pterm.LogLevelInfo)
	return &Console{logger: logger}
}

// EnableDebug passa a exibir as mensagens estruturadas de debug.
func (c *Console) EnableDebug() {
	c.logger = c.logger.WithLevel(pterm.LogLevelDebug).WithCaller(false)
}

// Print imprime no console.
func (c *Console) Print(a ...interface{}) {
	fmt.Print(a...)
}

// Printf imprime uma string formatada no console.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Printf(format, a...)
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Println(a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

// LogDebug registra uma mensagem estruturada com pares chave/valor.
func (c *Console) LogDebug(msg string, keyvals ...interface{}) {
	c.logger.Debug(msg, c.logger.Args(keyvals...))
}

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.Start(message)
	return &statusHandle{spinner: spinner}
}

// Cores predefinidas para uso consistente
var (
	BoldRed      = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightGreen  = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightYellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	BrightBlue   = color.New(color.FgBlue, color.Bold).SprintFunc()
	BrightCyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	Orange       = color.New(color.FgHiRed).SprintFunc()
)

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		h.spinner.Stop()
	}
}

// progressHandle é uma implementação do ProgressHandle.
// Increment pode ser chamado por várias goroutines.
type progressHandle struct {
	mu  sync.Mutex
	bar *pterm.ProgressbarPrinter
}

func (c *Console) ProgressWithTotal(total int) types.ProgressHandle {
	bar, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Gathering cost data").
		WithShowElapsedTime(true).
		WithShowCount(true).
		WithRemoveWhenDone(false).
		Start()
	return &progressHandle{bar: bar}
}

// Increment incrementa a barra de progresso.
func (h *progressHandle) Increment() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.bar != nil {
		h.bar.Increment()
	}
}

// Stop pára a barra de progresso.
func (h *progressHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.bar != nil {
		h.bar.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

// DisplayTrendBars exibe o total mensal da conta como barras com variação mês a mês.
func (c *Console) DisplayTrendBars(totals []entity.AccountMonthlyTotal) {
	maxCost := decimal.Zero
	for _, t := range totals {
		if t.TotalCost.GreaterThan(maxCost) {
			maxCost = t.TotalCost
		}
	}

	if !maxCost.IsPositive() {
		pterm.Warning.Println("All costs are $0.00 for this period")
		return
	}

	tableData := pterm.TableData{
		{"Month", "Cost", "", "MoM Change"},
	}

	hundred := decimal.NewFromInt(100)
	minCost := decimal.NewFromFloat(0.01)
	var prevCost *decimal.Decimal

	for _, t := range totals {
		barLength := int(t.TotalCost.Div(maxCost).Mul(decimal.NewFromInt(40)).IntPart())
		if barLength < 0 {
			barLength = 0
		}
		bar := strings.Repeat("█", barLength)

		barColor := pterm.FgBlue.Sprint(bar)
		change := ""

		if prevCost != nil {
			switch {
			case prevCost.LessThan(minCost):
				if t.TotalCost.LessThan(minCost) {
					change = pterm.FgYellow.Sprint("0%")
					barColor = pterm.FgYellow.Sprint(bar)
				} else {
					change = pterm.FgRed.Sprint("N/A")
					barColor = pterm.FgRed.Sprint(bar)
				}
			default:
				changePercent, _ := t.TotalCost.Sub(*prevCost).Div(*prevCost).Mul(hundred).Float64()
				switch {
				case changePercent > -0.01 && changePercent < 0.01:
					change = pterm.FgYellow.Sprint("0%")
					barColor = pterm.FgYellow.Sprint(bar)
				case changePercent > 999:
					change = pterm.FgRed.Sprint(">+999%")
					barColor = pterm.FgRed.Sprint(bar)
				case changePercent < -999:
					change = pterm.FgGreen.Sprint(">-999%")
					barColor = pterm.FgGreen.Sprint(bar)
				case changePercent > 0:
					change = pterm.FgRed.Sprintf("+%.2f%%", changePercent)
					barColor = pterm.FgRed.Sprint(bar)
				default:
					change = pterm.FgGreen.Sprintf("%.2f%%", changePercent)
					barColor = pterm.FgGreen.Sprint(bar)
				}
			}
		}

		tableData = append(tableData, []string{
			t.MonthLabel(),
			"$" + t.TotalCost.StringFixed(2),
			barColor,
			change,
		})

		current := t.TotalCost
		prevCost = &current
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(tableData)
	renderedTable, _ := table.Srender()

	panel := pterm.DefaultBox.WithTitle("AWS Monthly Cost Totals").WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(renderedTable)

	fmt.Println("\n" + panel)
}

// DisplayServiceTrends imprime uma linha por serviço classificado.
func (c *Console) DisplayServiceTrends(trends []entity.ServiceTrend) {
	fmt.Println("=== Trends:")
	if len(trends) == 0 {
		pterm.Info.Println("Not enough non-estimated months to classify any service.")
		return
	}
	for _, t := range trends {
		fmt.Printf("==== %s: %s (slope %.2f)\n", t.Service, colorize(t.Label), t.Slope)
	}
}

func colorize(label entity.TrendLabel) string {
	msg := label.Message()
	switch label {
	case entity.TrendVerySignificantIncrease:
		return BoldRed(msg)
	case entity.TrendSignificantIncrease:
		return Orange(msg)
	case entity.TrendIncrease:
		return BrightYellow(msg)
	case entity.TrendDecrease:
		return BrightBlue(msg)
	default:
		return BrightGreen(msg)
	}
}
