package observability

// MetricKey is the exported Prometheus name of an instrument.
type MetricKey string

// RED metrics per use case and per outbound call.
const (
	MUsecaseRequests         MetricKey = "usecase_requests_total"
	MUsecaseDuration         MetricKey = "usecase_duration_seconds"
	MExternalRequests        MetricKey = "external_requests_total"
	MExternalRequestDuration MetricKey = "external_request_duration_seconds"
)

// Served HTTP traffic, labelled by method, route template and status.
const (
	MHTTPRequests        MetricKey = "http_requests_total"
	MHTTPRequestDuration MetricKey = "http_request_duration_seconds"
)

// MLowStockAlerts counts products that crossed into low stock, by category.
const MLowStockAlerts MetricKey = "inventory_low_stock_alerts_total"
