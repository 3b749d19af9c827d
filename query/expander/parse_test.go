//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

package expander

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseExpandedQueries(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		max  int
		want []string
	}{
		{
			name: "numbered with dot",
			raw:  "1. 如何申请退款\n2. 退款流程是什么\n3. 退款多久到账",
			max:  5,
			want: []string{"如何申请退款", "退款流程是什么", "退款多久到账"},
		},
		{
			name: "truncated to max",
			raw:  "1. a\n2. b\n3. c\n4. d",
			max:  2,
			want: []string{"a", "b"},
		},
		{
			name: "blank lines and crlf",
			raw:  "\r\n1) first\r\n\r\n   \n2) second\r\n",
			max:  5,
			want: []string{"first", "second"},
		},
		{
			name: "chinese and full width markers",
			raw:  "1、系统报错500\n２．服务器内部错误\n（3）HTTP 500 错误码排查",
			max:  6,
			want: []string{"系统报错500", "服务器内部错误", "HTTP 500 错误码排查"},
		},
		{
			name: "bullets",
			raw:  "- 退款\n* 退货\n• 售后",
			max:  3,
			want: []string{"退款", "退货", "售后"},
		},
		{
			name: "content that looks numeric is kept",
			raw:  "500错误怎么办\n1.5倍退款规则\n-5度能发货吗",
			max:  3,
			want: []string{"500错误怎么办", "1.5倍退款规则", "-5度能发货吗"},
		},
		{
			name: "times and domains are kept",
			raw:  "10:30 开会提醒\n2:00 am 报错\n3.com 域名无法访问",
			max:  3,
			want: []string{"10:30 开会提醒", "2:00 am 报错", "3.com 域名无法访问"},
		},
		{
			name: "markers before times and domains",
			raw:  "1. 10:30 开会提醒\n2: 3.com 域名无法访问\n3.如何退款",
			max:  3,
			want: []string{"10:30 开会提醒", "3.com 域名无法访问", "如何退款"},
		},
		{
			name: "wrapping quotes",
			raw:  "1. \"退款政策\"\n2. “退款时效”\n3. 「退款渠道」",
			max:  3,
			want: []string{"退款政策", "退款时效", "退款渠道"},
		},
		{
			name: "json array",
			raw:  "```json\n[\"退款流程\", \"\", \"退款到账时间\"]\n```",
			max:  3,
			want: []string{"退款流程", "退款到账时间"},
		},
		{
			name: "code fenced lines",
			raw:  "```\n1. a\n2. b\n```",
			max:  3,
			want: []string{"a", "b"},
		},
		{
			name: "only markers",
			raw:  "1.\n2.\n-",
			max:  3,
			want: []string{},
		},
		{
			name: "empty",
			raw:  "",
			max:  3,
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseExpandedQueries(tt.raw, tt.max))
		})
	}
}

func TestParseExpandedQueriesNonPositiveMax(t *testing.T) {
	assert.Nil(t, ParseExpandedQueries("1. a", 0))
	assert.Nil(t, ParseExpandedQueries("1. a", -1))
}

func TestMarkerLen(t *testing.T) {
	tests := map[string]int{
		"1. x":  2,
		"12) x": 3,
		"(2) x": 3,
		"3: x":  2,
		"- x":   1,
		"-- x":  2,
		"x":     0,
		"123":   0,
		"(1 x":  0,
		"2)":    2,
		"10:30": 0,
		"2:":    2,
		"3.com": 0,
		"1.如何":  2,
	}
	for in, want := range tests {
		assert.Equal(t, want, markerLen([]rune(in)), in)
	}
}
