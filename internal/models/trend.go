package models

// Trend is a ranked hashtag read from the counter store. It is not a
// database table; the worker maintains counts in a redis sorted set.
type Trend struct {
	Hashtag  string `json:"hashtag"`
	Count    int64  `json:"count"`
	Category string `json:"category"`
}
