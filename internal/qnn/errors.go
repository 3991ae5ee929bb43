package qnn

import "errors"

var (
	// ErrSoftmaxCapacity is returned by Softmax when the channel count exceeds
	// MaxSoftmaxChannels. The output tensor is left untouched.
	ErrSoftmaxCapacity = errors.New("qnn: softmax channel count exceeds capacity")

	ErrInvalidShape     = errors.New("qnn: invalid tensor shape")
	ErrBufferLength     = errors.New("qnn: buffer length does not match shape")
	ErrInvalidScale     = errors.New("qnn: scale must be positive")
	ErrInvalidZeroPoint = errors.New("qnn: zero-point outside [0,255]")
	ErrWeightLength     = errors.New("qnn: weight buffer length does not match layout")
	ErrBiasLength       = errors.New("qnn: bias length does not match channel count")
)
