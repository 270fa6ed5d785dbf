package review

// Place 一个地点（商家）及其评论
type Place struct {
	PlaceID      string   `json:"place_id"`
	Name         string   `json:"name"`
	Street       string   `json:"street"`
	Neighborhood string   `json:"neighborhood"`
	City         string   `json:"city"`
	Type         string   `json:"type"`
	Rating       string   `json:"rating"`
	Reviews      []Review `json:"reviews"`
}

// Review 一条客户评论
type Review struct {
	ReviewID string `json:"review_id"`
	Author   string `json:"author"`
	Rating   string `json:"rating"`
	Text     string `json:"text"`
	Date     string `json:"date"`
	Response string `json:"response"`
}

// Chunk 评论文本的 Token 切片
// 创建后不可变，携带父评论/地点元数据的副本；仅由检索消费
type Chunk struct {
	ID         string // UUID，同时作为 Qdrant point_id
	Text       string // 切片文本
	ChunkIndex int    // 在评论中的序号

	// 地点元数据
	Name         string
	Street       string
	Neighborhood string
	City         string
	Type         string
	PlaceRating  string

	// 评论元数据
	ReviewRating string
	Author       string
	Date         string
	Response     string
}

// Qdrant payload 键名
const (
	PayloadText         = "text"
	PayloadName         = "name"
	PayloadStreet       = "street"
	PayloadNeighborhood = "neighborhood"
	PayloadCity         = "city"
	PayloadType         = "type"
	PayloadPlaceRating  = "place_rating"
	PayloadReviewRating = "review_rating"
	PayloadAuthor       = "author"
	PayloadDate         = "date"
	PayloadResponse     = "response"
	PayloadChunkIndex   = "chunk_index"
)

// PayloadMap 返回切片的元数据映射（用于 Qdrant payload）
func (c *Chunk) PayloadMap() map[string]string {
	return map[string]string{
		PayloadName:         c.Name,
		PayloadStreet:       c.Street,
		PayloadNeighborhood: c.Neighborhood,
		PayloadCity:         c.City,
		PayloadType:         c.Type,
		PayloadPlaceRating:  c.PlaceRating,
		PayloadReviewRating: c.ReviewRating,
		PayloadAuthor:       c.Author,
		PayloadDate:         c.Date,
		PayloadResponse:     c.Response,
	}
}
