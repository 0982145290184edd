package repository

import (
	"coder_edu_catalog/internal/catalog"
	"coder_edu_catalog/internal/model"
	"encoding/json"

	"gorm.io/datatypes"
)

func toJSON(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func fromJSONStrings(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// courseRecords 把目录转换为带嵌套关联的记录，Position 取自声明顺序
func courseRecords(cat *catalog.Catalog) ([]model.CourseRecord, error) {
	courses := cat.Courses()
	records := make([]model.CourseRecord, 0, len(courses))
	for ci, c := range courses {
		cr := model.CourseRecord{Slug: c.ID, Title: c.Title, Description: c.Description, Position: ci}
		for mi, m := range c.Modules() {
			mr := model.ModuleRecord{Slug: m.ID, Title: m.Title, Description: m.Description, Position: mi}
			for li, l := range m.Lessons() {
				lr, err := lessonRecord(l, li)
				if err != nil {
					return nil, err
				}
				mr.Lessons = append(mr.Lessons, lr)
			}
			cr.Modules = append(cr.Modules, mr)
		}
		records = append(records, cr)
	}
	return records, nil
}

func lessonRecord(l catalog.Lesson, pos int) (model.LessonRecord, error) {
	lr := model.LessonRecord{
		Slug:     l.ID,
		Title:    l.Title,
		Duration: l.Duration,
		Content:  l.Content,
		Position: pos,
	}
	if l.Composed() {
		sections := make([]model.SectionJSON, 0, len(l.Sections()))
		for _, s := range l.Sections() {
			sections = append(sections, model.SectionJSON{ID: s.ID, Title: s.Title, Content: s.Content})
		}
		raw, err := toJSON(sections)
		if err != nil {
			return lr, err
		}
		lr.Sections = raw
	}
	for i, ex := range l.CodeExamples() {
		lr.CodeExamples = append(lr.CodeExamples, model.CodeExampleRecord{
			Slug:        ex.ID,
			Title:       ex.Title,
			Language:    ex.Language,
			Code:        ex.Code,
			Explanation: ex.Explanation,
			Position:    i,
		})
	}
	for i, a := range l.Assignments() {
		hints, err := toJSON(a.Hints)
		if err != nil {
			return lr, err
		}
		lr.Assignments = append(lr.Assignments, model.AssignmentRecord{
			Slug:        a.ID,
			Title:       a.Title,
			Description: a.Description,
			Difficulty:  string(a.Difficulty),
			Type:        string(a.Type),
			Hints:       hints,
			InitialCode: a.InitialCode,
			Solution:    a.Solution,
			Position:    i,
		})
	}
	for i, r := range l.Resources() {
		lr.Resources = append(lr.Resources, model.ResourceRecord{
			Title:    r.Title,
			URL:      r.URL,
			Type:     string(r.Type),
			Position: i,
		})
	}
	for i, q := range l.Quiz() {
		options, err := toJSON(q.Options)
		if err != nil {
			return lr, err
		}
		lr.Quiz = append(lr.Quiz, model.QuizQuestionRecord{
			Slug:          q.ID,
			Question:      q.Question,
			Options:       options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Position:      i,
		})
	}
	return lr, nil
}

// ToLesson 用领域构造函数重建课时，存储中的数据同样经过校验
func ToLesson(lr *model.LessonRecord) (catalog.Lesson, error) {
	spec := catalog.LessonSpec{
		ID:       lr.Slug,
		Title:    lr.Title,
		Duration: lr.Duration,
		Content:  lr.Content,
	}
	for _, ex := range lr.CodeExamples {
		spec.CodeExamples = append(spec.CodeExamples, catalog.CodeExample{
			ID:          ex.Slug,
			Title:       ex.Title,
			Language:    ex.Language,
			Code:        ex.Code,
			Explanation: ex.Explanation,
		})
	}
	for _, a := range lr.Assignments {
		hints, err := fromJSONStrings(a.Hints)
		if err != nil {
			return catalog.Lesson{}, err
		}
		spec.Assignments = append(spec.Assignments, catalog.Assignment{
			ID:          a.Slug,
			Title:       a.Title,
			Description: a.Description,
			Difficulty:  catalog.Difficulty(a.Difficulty),
			Type:        catalog.AssignmentType(a.Type),
			Hints:       hints,
			InitialCode: a.InitialCode,
			Solution:    a.Solution,
		})
	}
	for _, r := range lr.Resources {
		spec.Resources = append(spec.Resources, catalog.Resource{Title: r.Title, URL: r.URL, Type: catalog.ResourceType(r.Type)})
	}
	for _, q := range lr.Quiz {
		options, err := fromJSONStrings(q.Options)
		if err != nil {
			return catalog.Lesson{}, err
		}
		spec.Quiz = append(spec.Quiz, catalog.QuizQuestion{
			ID:            q.Slug,
			Question:      q.Question,
			Options:       options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}

	if len(lr.Sections) == 0 {
		return catalog.NewLesson(spec)
	}
	var stored []model.SectionJSON
	if err := json.Unmarshal(lr.Sections, &stored); err != nil {
		return catalog.Lesson{}, err
	}
	sections := make([]catalog.Section, 0, len(stored))
	for _, s := range stored {
		sections = append(sections, catalog.Section{ID: s.ID, Title: s.Title, Content: s.Content})
	}
	return catalog.NewComposedLesson(spec, sections)
}

func toCatalog(records []model.CourseRecord) (*catalog.Catalog, error) {
	courses := make([]catalog.Course, 0, len(records))
	for _, cr := range records {
		modules := make([]catalog.Module, 0, len(cr.Modules))
		for _, mr := range cr.Modules {
			lessons := make([]catalog.Lesson, 0, len(mr.Lessons))
			for i := range mr.Lessons {
				l, err := ToLesson(&mr.Lessons[i])
				if err != nil {
					return nil, err
				}
				lessons = append(lessons, l)
			}
			m, err := catalog.NewModule(mr.Slug, mr.Title, mr.Description, lessons)
			if err != nil {
				return nil, err
			}
			modules = append(modules, m)
		}
		c, err := catalog.NewCourse(cr.Slug, cr.Title, cr.Description, modules)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return catalog.NewCatalog(courses)
}
