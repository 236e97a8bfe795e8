package request

type ScrapeRequest struct {
	URLs []string `json:"urls"`
}
