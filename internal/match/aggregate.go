// Package match 实现匹配阶段的公共机制：按优先级串联的聚合匹配器，
// 以及基于参照清单的单向归并游标。
package match

import "bookstruct/pkg/contract"

// Aggregate: 责任链式聚合匹配器（首个命中者胜出）。
// 顺序由配置决定，更具体的匹配器必须排在更通用的之前。
//
// FillContent 开启时，未命中的非空白 unrecognized 记录按最近一次出现的
// 标题类型补全为简介/正文；在任何标题之前保持 unrecognized。
type Aggregate struct {
	matchers    []contract.Matcher
	fillContent bool
	last        contract.Type
}

// NewAggregate 以给定顺序构造聚合匹配器。
func NewAggregate(matchers []contract.Matcher, fillContent bool) *Aggregate {
	ms := make([]contract.Matcher, len(matchers))
	copy(ms, matchers)
	return &Aggregate{matchers: ms, fillContent: fillContent}
}

var _ contract.Processor = (*Aggregate)(nil)

// Process 依次尝试各匹配器，返回首个命中结果；全部未命中时原样返回。
func (a *Aggregate) Process(rec contract.Record) contract.Record {
	out, ok := a.Match(rec)
	if !ok {
		out = a.fill(rec)
	}
	if out.Type.IsTitle() {
		a.last = out.Type
	}
	return out
}

// Match 仅执行责任链，不做内容补全。
func (a *Aggregate) Match(rec contract.Record) (contract.Record, bool) {
	for _, m := range a.matchers {
		if out, ok := m.Match(rec.Clone()); ok {
			return out, true
		}
	}
	return rec, false
}

func (a *Aggregate) fill(rec contract.Record) contract.Record {
	if !a.fillContent || rec.Type != contract.Unrecognized {
		return rec
	}
	switch a.last {
	case contract.BookTitle:
		rec.Type = contract.BookIntro
	case contract.VolumeTitle:
		rec.Type = contract.VolumeIntro
	case contract.ChapterTitle:
		rec.Type = contract.ChapterContent
	}
	return rec
}

// Accepts 判断记录是否可由目标类型为 typ 的匹配器处理：
// 尚未分类，或已分类为同一类型（重复匹配幂等）。
func Accepts(rec contract.Record, typ contract.Type) bool {
	return rec.Type == contract.Unrecognized || rec.Type == typ
}
