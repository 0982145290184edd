package catalog

import (
	"errors"
	"fmt"
	"sort"
)

type Kind string

const (
	KindIdentityCollision Kind = "identity_collision"
	KindDanglingReference Kind = "dangling_reference"
	KindMalformedRecord   Kind = "malformed_record"
	KindNamingMismatch    Kind = "naming_mismatch"
	KindUnknownVocabulary Kind = "unknown_vocabulary"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation 一条结构性问题。Path 形如 course/module/lesson。
type Violation struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Subject  string   `json:"subject"`
	Message  string   `json:"message"`
	Err      error    `json:"-"`
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s: %s", v.Path, v.Kind, v.Message)
}

func (v Violation) Unwrap() error { return v.Err }

// Report 收集一次加载中发现的所有问题
type Report struct {
	Violations []Violation `json:"violations"`
}

func (r *Report) Add(vs ...Violation) {
	r.Violations = append(r.Violations, vs...)
}

// AddError 把构造期错误归类为 error 级别的问题
func (r *Report) AddError(path string, err error) {
	kind := KindMalformedRecord
	if errors.Is(err, ErrDuplicateID) {
		kind = KindIdentityCollision
	}
	r.Add(Violation{Kind: kind, Severity: SeverityError, Path: path, Message: err.Error(), Err: err})
}

func (r *Report) filter(sev Severity) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == sev {
			out = append(out, v)
		}
	}
	return out
}

func (r *Report) Errors() []Violation   { return r.filter(SeverityError) }
func (r *Report) Warnings() []Violation { return r.filter(SeverityWarning) }

func (r *Report) HasErrors() bool { return len(r.Errors()) > 0 }

// Err 合并所有 error 级别问题，没有时返回 nil
func (r *Report) Err() error {
	var errs []error
	for _, v := range r.Errors() {
		errs = append(errs, v)
	}
	return errors.Join(errs...)
}

// CheckExports 比较模块的有序课时与单独导出的课时ID，两个方向的缺失都记为悬空引用，
// 每个ID只报告一次；重复导出记为ID冲突
func CheckExports(path string, m Module, exported []string) []Violation {
	var out []Violation
	inModule := make(map[string]struct{}, m.Len())
	for _, id := range m.lessonIDs() {
		inModule[id] = struct{}{}
	}
	inExports := make(map[string]int, len(exported))
	for _, id := range exported {
		inExports[id]++
		switch n := inExports[id]; {
		case n == 2:
			out = append(out, Violation{
				Kind:     KindIdentityCollision,
				Severity: SeverityWarning,
				Path:     path,
				Subject:  id,
				Message:  fmt.Sprintf("lesson %q is exported more than once", id),
			})
			continue
		case n > 2:
			continue
		}
		if _, ok := inModule[id]; !ok {
			out = append(out, Violation{
				Kind:     KindDanglingReference,
				Severity: SeverityWarning,
				Path:     path,
				Subject:  id,
				Message:  fmt.Sprintf("exported lesson %q is not part of module %q", id, m.ID),
			})
		}
	}
	for _, id := range m.lessonIDs() {
		if _, ok := inExports[id]; !ok {
			out = append(out, Violation{
				Kind:     KindDanglingReference,
				Severity: SeverityWarning,
				Path:     path,
				Subject:  id,
				Message:  fmt.Sprintf("lesson %q of module %q is not exported", id, m.ID),
			})
		}
	}
	return out
}

type NamingPolicy string

const (
	NamingOff    NamingPolicy = "off"
	NamingWarn   NamingPolicy = "warn"
	NamingStrict NamingPolicy = "strict"
)

func (p NamingPolicy) Valid() bool {
	return p == NamingOff || p == NamingWarn || p == NamingStrict
}

// CheckNaming 要求ID与其来源文件名（不含扩展名）一致
func CheckNaming(policy NamingPolicy, path, entity, id, sourceName string) (Violation, bool) {
	if policy == NamingOff || id == sourceName {
		return Violation{}, false
	}
	sev := SeverityWarning
	if policy == NamingStrict {
		sev = SeverityError
	}
	return Violation{
		Kind:     KindNamingMismatch,
		Severity: sev,
		Path:     path,
		Subject:  id,
		Message:  fmt.Sprintf("%s id %q does not match source name %q", entity, id, sourceName),
	}, true
}

// CheckVocabulary 报告不在推荐词表中的难度、练习类型和资料类型
func CheckVocabulary(path string, l Lesson) []Violation {
	var out []Violation
	unknown := func(field, value string) {
		out = append(out, Violation{
			Kind:     KindUnknownVocabulary,
			Severity: SeverityWarning,
			Path:     path,
			Subject:  value,
			Message:  fmt.Sprintf("%s %q is not in the recommended vocabulary", field, value),
		})
	}
	for _, a := range l.assignments {
		if a.Difficulty != "" && !a.Difficulty.IsKnown() {
			unknown("difficulty", string(a.Difficulty))
		}
		if a.Type != "" && !a.Type.IsKnown() {
			unknown("assignment type", string(a.Type))
		}
	}
	for _, r := range l.resources {
		if r.Type != "" && !r.Type.IsKnown() {
			unknown("resource type", string(r.Type))
		}
	}
	return out
}

// CountByKind 按类别和级别统计，用于指标上报
func (r *Report) CountByKind() map[Kind]map[Severity]int {
	out := make(map[Kind]map[Severity]int)
	for _, v := range r.Violations {
		if out[v.Kind] == nil {
			out[v.Kind] = make(map[Severity]int)
		}
		out[v.Kind][v.Severity]++
	}
	return out
}

// Sort 按路径稳定排序，便于输出
func (r *Report) Sort() {
	sort.SliceStable(r.Violations, func(i, j int) bool {
		return r.Violations[i].Path < r.Violations[j].Path
	})
}
