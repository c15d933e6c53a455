package utils

type Metric struct {
	FeedFetch chan float64
	FeedParse chan float64
}

func NewMetric() *Metric {
	return &Metric{
		FeedFetch: make(chan float64),
		FeedParse: make(chan float64),
	}
}
