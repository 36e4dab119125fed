package metrics

import (
	"math"
	"time"

	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

// Описательные DAX-формулы, включаемые в отчет метрик
var daxFormulas = map[string]string{
	"Loss Ratio": `Loss Ratio =
VAR total_claims = CALCULATE(SUM(fact_transactions[claim_amount]),
                      fact_transactions[product_category] = "Insurance")
VAR total_premiums = CALCULATE(SUM(fact_transactions[revenue]),
                         fact_transactions[product_category] = "Insurance")
RETURN DIVIDE(total_claims, total_premiums, 0)`,

	"Customer Retention Rate": `Retention Rate =
VAR total_customers = DISTINCTCOUNT(fact_transactions[customer_id])
VAR churned_customers = CALCULATE(DISTINCTCOUNT(fact_transactions[customer_id]),
                           fact_transactions[churn_flag] = 1)
RETURN 1 - DIVIDE(churned_customers, total_customers, 0)`,

	"Avg Budget Variance %": `Budget Variance % =
DIVIDE(
    SUM(fact_transactions[actual_amount]) - SUM(fact_transactions[budget_amount]),
    SUM(fact_transactions[budget_amount]),
    0
)`,
}

// Calculator вычисляет снимок бизнес-метрик по звездной схеме
type Calculator struct {
	logger *utils.ETLLogger
}

// NewCalculator создает новый экземпляр Calculator
func NewCalculator(logger *utils.ETLLogger) *Calculator {
	return &Calculator{
		logger: logger,
	}
}

// Calculate вычисляет все метрики по таблице фактов и измерению клиентов.
// Каждое деление защищено проверкой нулевого знаменателя; пустой или
// однострочный вход дает статусы undefined, а не ошибку
func (c *Calculator) Calculate(facts []models.FactTransaction, customers []models.CustomerDimension) *Snapshot {
	startTime := time.Now()
	c.logger.Info("Начало вычисления бизнес-метрик")

	snapshot := &Snapshot{GeneratedAt: time.Now()}

	if facts == nil {
		// Таблица фактов отсутствует: все метрики помечаются как failed
		c.logger.Error("Таблица фактов отсутствует, метрики не вычислены")
		for _, name := range metricNames {
			snapshot.Metrics = append(snapshot.Metrics, Value{
				Name:    name,
				Status:  StatusFailed,
				Formula: daxFormulas[name],
			})
		}
		return snapshot
	}

	// Простые суммы по таблице фактов
	totalRevenue := sum(facts, func(f models.FactTransaction) float64 { return f.Revenue })
	totalCost := sum(facts, func(f models.FactTransaction) float64 { return f.Cost })
	totalProfit := sum(facts, func(f models.FactTransaction) float64 { return f.Profit })
	totalBudget := sum(facts, func(f models.FactTransaction) float64 { return f.BudgetAmount })
	totalActual := sum(facts, func(f models.FactTransaction) float64 { return f.ActualAmount })

	snapshot.add("Total Revenue", totalRevenue, StatusComputed)
	snapshot.add("Total Cost", totalCost, StatusComputed)
	snapshot.add("Total Profit", totalProfit, StatusComputed)
	snapshot.add("Total Budget", totalBudget, StatusComputed)
	snapshot.add("Total Actual Spend", totalActual, StatusComputed)

	// Средние отклонения бюджета
	if len(facts) > 0 {
		snapshot.add("Avg Budget Variance",
			sum(facts, func(f models.FactTransaction) float64 { return f.Variance })/float64(len(facts)),
			StatusComputed)
	} else {
		snapshot.add("Avg Budget Variance", 0, StatusUndefined)
	}

	// Среднее по variance_pct пропускает неопределенные значения
	pctSum, pctCount := 0.0, 0
	for _, f := range facts {
		if f.VariancePct != nil {
			pctSum += *f.VariancePct
			pctCount++
		}
	}
	if pctCount > 0 {
		snapshot.add("Avg Budget Variance %", pctSum/float64(pctCount), StatusComputed)
	} else {
		snapshot.add("Avg Budget Variance %", 0, StatusUndefined)
	}

	// Loss Ratio по страховым транзакциям
	insuranceClaims, insuranceRevenue := 0.0, 0.0
	for _, f := range facts {
		if f.ProductCategory == "Insurance" {
			insuranceClaims += f.ClaimAmount
			insuranceRevenue += f.Revenue
		}
	}
	if insuranceRevenue > 0 {
		snapshot.add("Loss Ratio", insuranceClaims/insuranceRevenue, StatusComputed)
	} else {
		// Нулевая страховая выручка дает 0, а не ошибку деления
		snapshot.add("Loss Ratio", 0, StatusUndefined)
	}

	// Количество уникальных клиентов, не меньше 1,
	// чтобы исключить деление на ноль в зависимых метриках
	distinctCustomers := make(map[string]bool, len(customers))
	for _, customer := range customers {
		distinctCustomers[customer.CustomerID] = true
	}
	totalCustomers := float64(len(distinctCustomers))
	if totalCustomers < 1 {
		totalCustomers = 1
	}
	snapshot.add("Total Customers", totalCustomers, StatusComputed)

	// Метрики на клиента
	churnSum := sum(facts, func(f models.FactTransaction) float64 { return float64(f.ChurnFlag) })
	ordersSum := sum(facts, func(f models.FactTransaction) float64 { return f.OrdersCount })
	snapshot.add("Customer Retention Rate", 1-churnSum/totalCustomers, StatusComputed)
	snapshot.add("Avg Orders per Customer", ordersSum/totalCustomers, StatusComputed)

	// Региональный риск: среднее по регионам стандартных отклонений variance
	exposure, ok := c.regionalRiskExposure(facts, customers)
	if ok {
		snapshot.add("Regional Risk Exposure", exposure, StatusComputed)
	} else {
		snapshot.add("Regional Risk Exposure", 0, StatusUndefined)
	}

	c.logger.Info("Вычисление метрик завершено. Длительность: %v", time.Since(startTime))
	return snapshot
}

// regionalRiskExposure соединяет факты с измерением клиентов по customer_id,
// группирует variance по регионам и усредняет выборочные стандартные отклонения.
// Регионы с одной транзакцией пропускаются (отклонение не определено)
func (c *Calculator) regionalRiskExposure(facts []models.FactTransaction, customers []models.CustomerDimension) (float64, bool) {
	regionByCustomer := make(map[string]string, len(customers))
	for _, customer := range customers {
		if _, ok := regionByCustomer[customer.CustomerID]; !ok {
			regionByCustomer[customer.CustomerID] = customer.Region
		}
	}

	variancesByRegion := make(map[string][]float64)
	for _, f := range facts {
		region, ok := regionByCustomer[f.CustomerID]
		if !ok {
			continue
		}
		variancesByRegion[region] = append(variancesByRegion[region], f.Variance)
	}

	stdSum, stdCount := 0.0, 0
	for _, variances := range variancesByRegion {
		std, ok := sampleStdDev(variances)
		if !ok {
			continue
		}
		stdSum += std
		stdCount++
	}

	if stdCount == 0 {
		return 0, false
	}
	return stdSum / float64(stdCount), true
}

// sampleStdDev вычисляет выборочное стандартное отклонение (n-1).
// Для менее чем двух значений отклонение не определено
func sampleStdDev(values []float64) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}

	return math.Sqrt(sumSquares / float64(len(values)-1)), true
}

// sum суммирует выбранную меру по всем фактам
func sum(facts []models.FactTransaction, selector func(models.FactTransaction) float64) float64 {
	total := 0.0
	for _, f := range facts {
		total += selector(f)
	}
	return total
}

// metricNames - полный список метрик снимка в порядке отчета
var metricNames = []string{
	"Total Revenue",
	"Total Cost",
	"Total Profit",
	"Total Budget",
	"Total Actual Spend",
	"Avg Budget Variance",
	"Avg Budget Variance %",
	"Loss Ratio",
	"Total Customers",
	"Customer Retention Rate",
	"Avg Orders per Customer",
	"Regional Risk Exposure",
}

// add добавляет метрику в снимок, подставляя описательную формулу при наличии
func (s *Snapshot) add(name string, value float64, status Status) {
	s.Metrics = append(s.Metrics, Value{
		Name:    name,
		Value:   value,
		Status:  status,
		Formula: daxFormulas[name],
	})
}
