package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"coder_edu_catalog/internal/catalog"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// DocumentError 文档无法解析或结构不合法
type DocumentError struct {
	Name string
	Err  error
}

func (e *DocumentError) Error() string { return fmt.Sprintf("%s: %v", e.Name, e.Err) }
func (e *DocumentError) Unwrap() error { return e.Err }

// Loader 从 Source 读取内容文档并组装成目录。
// 结构性错误（重复ID、越界答案、缺失文件）使加载失败，一致性问题记为警告。
type Loader struct {
	src         Source
	policy      catalog.NamingPolicy
	log         *zap.Logger
	validate    *validator.Validate
	concurrency int
}

func NewLoader(src Source, policy catalog.NamingPolicy, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	if !policy.Valid() {
		policy = catalog.NamingWarn
	}
	return &Loader{
		src:         src,
		policy:      policy,
		log:         log,
		validate:    validator.New(),
		concurrency: 8,
	}
}

func (l *Loader) Source() Source { return l.src }

// Load 加载整个目录。report 总是返回，err 非空时 catalog 为 nil。
func (l *Loader) Load(ctx context.Context) (*catalog.Catalog, *catalog.Report, error) {
	report := &catalog.Report{}

	dirs, err := l.courseDirs(ctx, report)
	if err != nil {
		return nil, report, err
	}

	courses := make([]catalog.Course, 0, len(dirs))
	for _, dir := range dirs {
		c, ok, err := l.loadCourse(ctx, dir, report)
		if err != nil {
			return nil, report, err
		}
		if ok {
			courses = append(courses, c)
		}
	}

	cat, err := catalog.NewCatalog(courses)
	if err != nil {
		report.AddError("", err)
	}

	for _, v := range report.Warnings() {
		l.log.Warn("content warning", zap.String("path", v.Path), zap.String("kind", string(v.Kind)), zap.String("message", v.Message))
	}
	if report.HasErrors() {
		for _, v := range report.Errors() {
			l.log.Error("content error", zap.String("path", v.Path), zap.String("kind", string(v.Kind)), zap.String("message", v.Message))
		}
		return nil, report, fmt.Errorf("load %s: %d content errors: %w", l.src.Describe(), len(report.Errors()), report.Err())
	}

	stats := cat.Stats()
	l.log.Info("content loaded",
		zap.String("source", l.src.Describe()),
		zap.Int("courses", stats.Courses),
		zap.Int("modules", stats.Modules),
		zap.Int("lessons", stats.Lessons),
		zap.Int("warnings", len(report.Warnings())),
	)
	return cat, report, nil
}

// courseDirs 优先使用 catalog.yaml 中声明的课程顺序
func (l *Loader) courseDirs(ctx context.Context, report *catalog.Report) ([]string, error) {
	entries, err := l.src.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", l.src.Describe(), err)
	}
	var present []string
	for _, e := range entries {
		if e.IsDir {
			present = append(present, e.Name)
		}
	}

	var doc CatalogDoc
	err = l.readDoc(ctx, CatalogFile, &doc)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return present, nil
	case isDocumentError(err):
		report.AddError(CatalogFile, err)
		return nil, nil
	case err != nil:
		return nil, err
	}

	report.Add(unreferenced(CatalogFile, "course directory", present, doc.Courses)...)
	return doc.Courses, nil
}

func (l *Loader) loadCourse(ctx context.Context, dir string, report *catalog.Report) (catalog.Course, bool, error) {
	var doc CourseDoc
	err := l.readDoc(ctx, path.Join(dir, CourseFile), &doc)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		report.Add(catalog.Violation{
			Kind:     catalog.KindDanglingReference,
			Severity: catalog.SeverityError,
			Path:     dir,
			Subject:  dir,
			Message:  fmt.Sprintf("course directory %q has no %s", dir, CourseFile),
		})
		return catalog.Course{}, false, nil
	case isDocumentError(err):
		report.AddError(dir, err)
		return catalog.Course{}, false, nil
	case err != nil:
		return catalog.Course{}, false, err
	}

	if v, found := catalog.CheckNaming(l.policy, dir, "course", doc.ID, dir); found {
		report.Add(v)
	}

	entries, err := l.src.List(ctx, dir)
	if err != nil {
		return catalog.Course{}, false, err
	}
	var present []string
	for _, e := range entries {
		if e.IsDir {
			present = append(present, e.Name)
		}
	}
	report.Add(unreferenced(dir, "module directory", present, doc.Modules)...)

	modules := make([]catalog.Module, 0, len(doc.Modules))
	for _, name := range doc.Modules {
		m, ok, err := l.loadModule(ctx, path.Join(dir, name), report)
		if err != nil {
			return catalog.Course{}, false, err
		}
		if ok {
			modules = append(modules, m)
		}
	}

	course, err := catalog.NewCourse(doc.ID, doc.Title, doc.Description, modules)
	if err != nil {
		report.AddError(dir, err)
		return catalog.Course{}, false, nil
	}
	return course, true, nil
}

type lessonResult struct {
	lesson     catalog.Lesson
	ok         bool
	violations []catalog.Violation
}

func (l *Loader) loadModule(ctx context.Context, dir string, report *catalog.Report) (catalog.Module, bool, error) {
	var doc ModuleDoc
	err := l.readDoc(ctx, path.Join(dir, ModuleFile), &doc)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		report.Add(catalog.Violation{
			Kind:     catalog.KindDanglingReference,
			Severity: catalog.SeverityError,
			Path:     dir,
			Subject:  path.Base(dir),
			Message:  fmt.Sprintf("module %q is listed by its course but has no %s", path.Base(dir), ModuleFile),
		})
		return catalog.Module{}, false, nil
	case isDocumentError(err):
		report.AddError(dir, err)
		return catalog.Module{}, false, nil
	case err != nil:
		return catalog.Module{}, false, err
	}

	if v, found := catalog.CheckNaming(l.policy, dir, "module", doc.ID, path.Base(dir)); found {
		report.Add(v)
	}

	// 并发解析课时，结果按声明顺序归位
	results := make([]lessonResult, len(doc.Lessons))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, name := range doc.Lessons {
		g.Go(func() error {
			r, err := l.loadLesson(gctx, dir, name)
			results[i] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return catalog.Module{}, false, err
	}

	lessons := make([]catalog.Lesson, 0, len(results))
	for _, r := range results {
		report.Add(r.violations...)
		if r.ok {
			lessons = append(lessons, r.lesson)
		}
	}

	m, err := catalog.NewModule(doc.ID, doc.Title, doc.Description, lessons)
	if err != nil {
		report.AddError(dir, err)
		return catalog.Module{}, false, nil
	}

	if doc.Exports != nil {
		report.Add(catalog.CheckExports(dir, m, doc.Exports)...)
	}

	entries, err := l.src.List(ctx, dir)
	if err != nil {
		return catalog.Module{}, false, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir && e.Name != ModuleFile && strings.HasSuffix(e.Name, docExt) {
			files = append(files, stem(e.Name))
		}
	}
	report.Add(unreferenced(dir, "lesson file", files, doc.Lessons)...)

	return m, true, nil
}

func (l *Loader) loadLesson(ctx context.Context, dir, name string) (lessonResult, error) {
	p := path.Join(dir, name)
	var r lessonResult

	var doc LessonDoc
	err := l.readDoc(ctx, p+docExt, &doc)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		r.violations = append(r.violations, catalog.Violation{
			Kind:     catalog.KindDanglingReference,
			Severity: catalog.SeverityError,
			Path:     p,
			Subject:  name,
			Message:  fmt.Sprintf("lesson %q is listed by its module but %s%s does not exist", name, name, docExt),
		})
		return r, nil
	case isDocumentError(err):
		rep := catalog.Report{}
		rep.AddError(p, err)
		r.violations = rep.Violations
		return r, nil
	case err != nil:
		return r, err
	}

	lesson, err := doc.Build()
	if err != nil {
		rep := catalog.Report{}
		rep.AddError(p, err)
		r.violations = rep.Violations
		return r, nil
	}

	if v, found := catalog.CheckNaming(l.policy, p, "lesson", lesson.ID, name); found {
		r.violations = append(r.violations, v)
	}
	r.violations = append(r.violations, catalog.CheckVocabulary(p, lesson)...)
	r.lesson = lesson
	r.ok = true
	return r, nil
}

// readDoc 读取并校验 YAML 文档；内容问题包装为 *DocumentError
func (l *Loader) readDoc(ctx context.Context, name string, v any) error {
	data, err := l.src.Read(ctx, name)
	if err != nil {
		return err
	}
	return decodeDoc(l.validate, name, data, v)
}

func decodeDoc(validate *validator.Validate, name string, data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return &DocumentError{Name: name, Err: err}
	}
	if err := validate.Struct(v); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return err
		}
		return &DocumentError{Name: name, Err: err}
	}
	return nil
}

// ParseLesson 解析单个课时文档，规则与 Loader 相同
func ParseLesson(name string, data []byte) (catalog.Lesson, error) {
	var doc LessonDoc
	if err := decodeDoc(validator.New(), name, data, &doc); err != nil {
		return catalog.Lesson{}, err
	}
	lesson, err := doc.Build()
	if err != nil {
		return catalog.Lesson{}, &DocumentError{Name: name, Err: err}
	}
	return lesson, nil
}

func isDocumentError(err error) bool {
	var de *DocumentError
	return errors.As(err, &de)
}

// unreferenced 报告存在但未被上级文档引用的条目
func unreferenced(p, what string, present, referenced []string) []catalog.Violation {
	ref := make(map[string]struct{}, len(referenced))
	for _, r := range referenced {
		ref[r] = struct{}{}
	}
	var out []catalog.Violation
	for _, name := range present {
		if _, ok := ref[name]; ok {
			continue
		}
		out = append(out, catalog.Violation{
			Kind:     catalog.KindDanglingReference,
			Severity: catalog.SeverityWarning,
			Path:     p,
			Subject:  name,
			Message:  fmt.Sprintf("%s %q is not referenced", what, name),
		})
	}
	return out
}
