package models

// ColumnStats - card count and summed value for one pipeline stage
type ColumnStats struct {
	Title      string  `json:"title"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"total_value"`
}

// PipelineAnalytics - aggregate view over the whole pipeline
type PipelineAnalytics struct {
	ColumnStats        map[string]ColumnStats `json:"column_stats"`
	TotalCards         int                    `json:"total_cards"`
	TotalPipelineValue float64                `json:"total_pipeline_value"`
	Columns            []*Column              `json:"columns"`
}
