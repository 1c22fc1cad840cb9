package report

// Months are bucketed with strftime('%Y-%m', date) on the stored ISO date.
// Income and expense are told apart by amount sign, not category type.
const (
	sqlAllTransactions = `
SELECT t.id, t.date, t.amount, t.description,
       a.name AS account_name,
       c.name AS category_name,
       p.name AS party_name
FROM transactions t
JOIN accounts a ON t.account_id = a.id
JOIN categories c ON t.category_id = c.id
LEFT JOIN party p ON t.party_id = p.id
ORDER BY t.date DESC, t.id DESC`

	sqlMonthlyCashFlow = `
SELECT strftime('%Y-%m', t.date) AS month,
       SUM(CASE WHEN t.amount > 0 THEN t.amount ELSE 0 END) AS total_income,
       SUM(CASE WHEN t.amount < 0 THEN t.amount ELSE 0 END) AS total_expense,
       SUM(t.amount) AS net_change
FROM transactions t
JOIN categories c ON t.category_id = c.id
WHERE c.type != 'TRANSFER'
GROUP BY month
ORDER BY month ASC`

	sqlTransactionsByMonthAndType = `
SELECT t.date, t.amount, t.description,
       c.name AS category_name,
       c.type AS category_type,
       p.name AS party_name
FROM transactions t
JOIN categories c ON t.category_id = c.id
LEFT JOIN party p ON t.party_id = p.id
WHERE strftime('%Y-%m', t.date) = ?
  AND ((? = 'INCOME' AND t.amount > 0) OR (? = 'EXPENSE' AND t.amount < 0))
ORDER BY t.date DESC, t.id DESC`

	sqlCategoryBreakdown = `
SELECT c.name, ABS(SUM(t.amount)) AS total
FROM transactions t
JOIN categories c ON t.category_id = c.id
WHERE strftime('%Y-%m', t.date) = ?
  AND c.type != 'TRANSFER'
  AND ((? = 'INCOME' AND t.amount > 0) OR (? = 'EXPENSE' AND t.amount < 0))
GROUP BY c.name
ORDER BY total DESC, c.name ASC`

	sqlCategoryBreakdownAllTime = `
SELECT c.name, ABS(SUM(t.amount)) AS total
FROM transactions t
JOIN categories c ON t.category_id = c.id
WHERE c.type != 'TRANSFER'
  AND t.amount < 0
GROUP BY c.name
ORDER BY total DESC, c.name ASC`

	sqlAllTransactionsDetailed = `
SELECT t.date, t.amount, t.description,
       c.name AS category_name,
       c.type AS category_type,
       p.name AS party_name
FROM transactions t
JOIN categories c ON t.category_id = c.id
LEFT JOIN party p ON t.party_id = p.id
ORDER BY t.date DESC, t.id DESC`

	sqlCategoryNames = `SELECT name FROM categories ORDER BY name ASC`
)
