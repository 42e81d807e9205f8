package models

// OSMNode is one raw map node from the data source, before any shaping or
// ranking. Tags carries the node's key/value annotations as-is.
type OSMNode struct {
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// Tag returns the tag value, or empty when absent.
func (n OSMNode) Tag(key string) string {
	return n.Tags[key]
}
