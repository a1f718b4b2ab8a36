package postgres

import (
	"fmt"

	"github.com/inventory-ledger/internal/domain/money"
	"github.com/inventory-ledger/internal/domain/transaction"
	"github.com/shopspring/decimal"
)

// valueExpr is a numeric expression over a transaction row that can be
// rendered as SQL and evaluated in memory with the same result.
type valueExpr interface {
	SQL() string
	Eval(t *transaction.Transaction) decimal.Decimal
}

type columnExpr struct {
	field transaction.Field
}

func (c columnExpr) SQL() string {
	return transactionColumns[c.field]
}

func (c columnExpr) Eval(t *transaction.Transaction) decimal.Decimal {
	switch c.field {
	case transaction.FieldAmountPerUnit:
		return t.AmountPerUnit.Decimal()
	case transaction.FieldQuantity:
		return t.Quantity.Decimal()
	case transaction.FieldPurchasePrice:
		return t.PurchasePrice.Decimal()
	}
	panic("valuation: non-numeric field " + string(c.field))
}

type productExpr struct {
	left, right valueExpr
}

func (p productExpr) SQL() string {
	return p.left.SQL() + " * " + p.right.SQL()
}

func (p productExpr) Eval(t *transaction.Transaction) decimal.Decimal {
	return p.left.Eval(t).Mul(p.right.Eval(t))
}

// roundExpr rounds half away from zero, as NUMERIC ROUND does.
type roundExpr struct {
	inner  valueExpr
	places int32
}

func (r roundExpr) SQL() string {
	return fmt.Sprintf("ROUND(%s, %d)", r.inner.SQL(), r.places)
}

func (r roundExpr) Eval(t *transaction.Transaction) decimal.Decimal {
	return r.inner.Eval(t).Round(r.places)
}

// totalAmountExpr is the stored-column form of Transaction.ComputeTotal
var totalAmountExpr valueExpr = roundExpr{
	inner: productExpr{
		left:  columnExpr{field: transaction.FieldAmountPerUnit},
		right: columnExpr{field: transaction.FieldQuantity},
	},
	places: money.MoneyScale,
}
