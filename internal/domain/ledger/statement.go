package ledger

import (
	"consultancy-ledger/internal/domain/customer"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const (
	labelChargeSubtotal = "TOTAL CHARGES"
	labelPayment        = "Payment Received"
	labelBalanceFinal   = "FINAL BALANCE DUE"

	chargeDateLayout    = "2006-01-02"
	statementDateLayout = "02/01/2006"
	fileNameDateLayout  = "20060102"
)

// Branding carries the fixed company lines printed on every statement.
type Branding struct {
	CompanyName    string
	Tagline        string
	CurrencyPrefix string
}

type Header struct {
	CompanyName   string `json:"companyName"`
	Tagline       string `json:"tagline"`
	CustomerName  string `json:"customerName"`
	Mobile        string `json:"mobile"`
	Village       string `json:"village"`
	BankName      string `json:"bankName"`
	LoanAmount    string `json:"loanAmount"`
	StatementDate string `json:"statementDate"`
}

// StatementRow holds display-ready strings only; all amounts are already
// formatted and blanks resolved. Renderers lay these out verbatim.
type StatementRow struct {
	Role        RowRole `json:"role"`
	Date        string  `json:"date"`
	Particulars string  `json:"particulars"`
	Credit      string  `json:"credit"`
	Received    string  `json:"received"`
	Balance     string  `json:"balance"`
}

type Statement struct {
	Header       Header         `json:"header"`
	Rows         []StatementRow `json:"rows"`
	Summary      string         `json:"summary"`
	FullySettled bool           `json:"fullySettled"`
}

// FormatStatement turns a computed ledger plus customer identity into a
// renderer-agnostic statement document. Currency values get thousands
// separators and zero decimal places regardless of output target; this is
// a presentation rule only, the ledger keeps exact decimals.
func FormatStatement(cust *customer.Customer, led Ledger, branding Branding, now time.Time) *Statement {
	header := Header{
		CompanyName:   branding.CompanyName,
		Tagline:       branding.Tagline,
		CustomerName:  cust.Name,
		Mobile:        cust.Mobile,
		Village:       orDash(cust.Village),
		BankName:      orDash(cust.BankName),
		LoanAmount:    "-",
		StatementDate: now.Format(statementDateLayout),
	}
	if !cust.LoanAmount.IsZero() {
		header.LoanAmount = branding.CurrencyPrefix + " " + formatAmount(cust.LoanAmount)
	}

	rows := make([]StatementRow, 0, len(led.Rows))
	for _, row := range led.Rows {
		switch row.Role {
		case RoleCharge:
			date := "-"
			if row.Date != nil && !row.Date.IsZero() {
				date = row.Date.Format(chargeDateLayout)
			}
			rows = append(rows, StatementRow{
				Role:        RoleCharge,
				Date:        date,
				Particulars: row.Label,
				Credit:      formatAmount(*row.Credit),
				Received:    "-",
				Balance:     formatAmount(row.Running),
			})
		case RoleChargeSubtotal:
			rows = append(rows, StatementRow{
				Role:        RoleChargeSubtotal,
				Particulars: labelChargeSubtotal,
				Credit:      formatAmount(*row.Credit),
				Received:    "-",
				Balance:     formatAmount(row.Running),
			})
		case RolePayment:
			rows = append(rows, StatementRow{
				Role:        RolePayment,
				Date:        row.Date.Format(chargeDateLayout),
				Particulars: labelPayment,
				Credit:      "-",
				Received:    formatAmount(*row.Received),
				Balance:     formatAmount(row.Running),
			})
		case RoleBalanceFinal:
			rows = append(rows, StatementRow{
				Role:        RoleBalanceFinal,
				Particulars: labelBalanceFinal,
				Balance:     branding.CurrencyPrefix + " " + formatAmount(row.Running),
			})
		}
	}

	settled := led.Balance.IsZero()
	var summary string
	if settled {
		summary = fmt.Sprintf("ACCOUNT FULLY PAID - Balance: %s 0/-", branding.CurrencyPrefix)
	} else {
		// Overpayment keeps the same message with the sign preserved.
		summary = fmt.Sprintf("Outstanding Balance: %s %s/-", branding.CurrencyPrefix, formatAmount(led.Balance))
	}

	return &Statement{
		Header:       header,
		Rows:         rows,
		Summary:      summary,
		FullySettled: settled,
	}
}

// ExportFileName follows the Ledger_<name-with-underscores>_<YYYYMMDD>
// convention for downloaded statements.
func ExportFileName(customerName string, now time.Time) string {
	name := strings.ReplaceAll(strings.TrimSpace(customerName), " ", "_")
	return fmt.Sprintf("Ledger_%s_%s.pdf", name, now.Format(fileNameDateLayout))
}

func formatAmount(d decimal.Decimal) string {
	return humanize.Comma(d.Round(0).IntPart())
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
