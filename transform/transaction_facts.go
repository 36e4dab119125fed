package transform

import (
	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

// TransactionFactsProcessor отвечает за построение таблицы фактов транзакций
type TransactionFactsProcessor struct {
	logger *utils.ETLLogger
}

// NewTransactionFactsProcessor создает новый экземпляр TransactionFactsProcessor
func NewTransactionFactsProcessor(logger *utils.ETLLogger) *TransactionFactsProcessor {
	return &TransactionFactsProcessor{
		logger: logger,
	}
}

// ProcessFacts строит факты из очищенных транзакций и вычисляет производные меры:
// profit = revenue - cost, variance = actual - budget,
// variance_pct = variance / budget (не определено при нулевом бюджете)
func (p *TransactionFactsProcessor) ProcessFacts(transactions []models.CleanedTransaction) []models.FactTransaction {
	facts := make([]models.FactTransaction, 0, len(transactions))

	for _, tx := range transactions {
		fact := models.FactTransaction{
			TransactionID:   tx.TransactionID,
			Date:            tx.Date,
			CustomerID:      tx.CustomerID,
			ProductCategory: tx.ProductCategory,
			BudgetAmount:    tx.BudgetAmount,
			ActualAmount:    tx.ActualAmount,
			Cost:            tx.Cost,
			Revenue:         tx.Revenue,
			ClaimFlag:       tx.ClaimFlag,
			ClaimAmount:     tx.ClaimAmount,
			ChurnFlag:       tx.ChurnFlag,
			OrdersCount:     tx.OrdersCount,
		}

		fact.Profit = tx.Revenue - tx.Cost
		fact.Variance = tx.ActualAmount - tx.BudgetAmount

		// Деление на нулевой бюджет не определено, а не ошибка
		if tx.BudgetAmount != 0 {
			pct := fact.Variance / tx.BudgetAmount
			fact.VariancePct = &pct
		}

		facts = append(facts, fact)
	}

	return facts
}
