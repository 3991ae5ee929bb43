package api

import (
	"github.com/samcharles93/dsconv/internal/assets"
	"github.com/samcharles93/dsconv/internal/classify"
)

// ClassifyRequest is the JSON form of POST /v1/classify. Image is a
// base64-encoded 24-bit BMP.
type ClassifyRequest struct {
	Image string `json:"image"`
	TopK  *int   `json:"top_k,omitempty"`
}

type ClassifyResponse struct {
	ID            string           `json:"id"`
	Object        string           `json:"object"`
	Created       int64            `json:"created"`
	Top           []classify.Score `json:"top"`
	Probabilities []float32        `json:"probabilities"`
	TimingsUS     TimingsUS        `json:"timings_us"`
	Memory        classify.Memory  `json:"memory"`
}

// TimingsUS mirrors classify.Timings in whole microseconds.
type TimingsUS struct {
	Depthwise int64 `json:"depthwise"`
	Pointwise int64 `json:"pointwise"`
	AvgPool   int64 `json:"avgpool"`
	Softmax   int64 `json:"softmax"`
	Total     int64 `json:"total"`
}

func timingsUS(t classify.Timings) TimingsUS {
	return TimingsUS{
		Depthwise: t.Depthwise.Microseconds(),
		Pointwise: t.Pointwise.Microseconds(),
		AvgPool:   t.AvgPool.Microseconds(),
		Softmax:   t.Softmax.Microseconds(),
		Total:     t.Total.Microseconds(),
	}
}

type Shape struct {
	H int `json:"h"`
	W int `json:"w"`
	C int `json:"c"`
}

type ModelResponse struct {
	Object  string                  `json:"object"`
	Input   Shape                   `json:"input"`
	Classes int                     `json:"classes"`
	Labels  []string                `json:"labels"`
	Relu6   bool                    `json:"relu6"`
	TopK    int                     `json:"top_k"`
	Quant   classify.OperatingPoint `json:"quant"`
	Files   []assets.Digest         `json:"files,omitempty"`
}

type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param,omitempty"`
	Code    string `json:"code,omitempty"`
}
