package otel

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// 重导出常用类型，调用方无需直接依赖 go.opentelemetry.io/otel
type (
	Span      = trace.Span
	Tracer    = trace.Tracer
	Attribute = attribute.KeyValue
)

// Code 常量
const (
	CodeUnset = codes.Unset
	CodeError = codes.Error
	CodeOk    = codes.Ok
)

// 属性构造函数
var (
	String = attribute.String
	Int    = attribute.Int
	Int64  = attribute.Int64
	Bool   = attribute.Bool
)

// WithAttributes 设置 span 属性
func WithAttributes(attrs ...Attribute) trace.SpanStartOption {
	return trace.WithAttributes(attrs...)
}

// WithSpanKind 设置 span 类型
func WithSpanKind(kind trace.SpanKind) trace.SpanStartOption {
	return trace.WithSpanKind(kind)
}

// SpanKindInternal 进程内 span
const SpanKindInternal = trace.SpanKindInternal
