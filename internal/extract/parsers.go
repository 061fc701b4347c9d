package extract

import (
	"strconv"
	"strings"
	"time"

	"todozi/internal/model"
	"todozi/internal/projecthash"
	"todozi/internal/tags"
	"todozi/internal/todozierr"
)

// ownerUser threads the caller identity into families that record one
// (memories); every parser has the same signature shape so the dispatch
// table in pipeline.go can hold them uniformly per family.

func parseTask(fields []string, _ string) (*model.Task, error) {
	if err := tags.CheckArity(tags.FamilyTodozi, fields); err != nil {
		return nil, err
	}
	priority, err := model.ParsePriority(fields[2])
	if err != nil {
		return nil, err
	}
	status, err := model.ParseTaskStatus(fields[4])
	if err != nil {
		return nil, err
	}
	project := fields[3]
	projectID := projecthash.Hash(project)
	t := model.NewTask(fields[0], fields[1], priority, project, projectID, status)
	if assignee := tags.FieldAt(fields, 5); assignee != "" {
		a, err := model.ParseAssignee(assignee)
		if err != nil {
			return nil, err
		}
		t.Assignee = a
	}
	if tagsField := tags.FieldAt(fields, 6); tagsField != "" {
		t.Tags = tags.SplitList(tagsField)
	}
	if depsField := tags.FieldAt(fields, 7); depsField != "" {
		t.Dependencies = tags.SplitList(depsField)
	}
	t.ContextNotes = tags.FieldAt(fields, 8)
	if progressField := tags.FieldAt(fields, 9); progressField != "" {
		p, err := strconv.Atoi(strings.TrimSpace(progressField))
		if err != nil {
			return nil, todozierr.Validation("invalid progress %q", progressField)
		}
		if err := t.SetProgress(p); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func parseMemory(fields []string, ownerUser string) (*model.Memory, error) {
	if err := tags.CheckArity(tags.FamilyMemory, fields); err != nil {
		return nil, err
	}
	typ := model.ParseMemoryType(fields[0])
	importance, err := model.ParseMemoryImportance(fields[4])
	if err != nil {
		return nil, err
	}
	term, err := model.ParseMemoryTerm(fields[5])
	if err != nil {
		return nil, err
	}
	m := model.NewMemory(typ, fields[1], fields[2], fields[3], importance, term, ownerUser)
	if tagsField := tags.FieldAt(fields, 6); tagsField != "" {
		m.Tags = tags.SplitList(tagsField)
	}
	return m, nil
}

func parseIdea(fields []string, _ string) (*model.Idea, error) {
	if err := tags.CheckArity(tags.FamilyIdea, fields); err != nil {
		return nil, err
	}
	share, err := model.ParseShareLevel(fields[1])
	if err != nil {
		return nil, err
	}
	importance, err := model.ParseIdeaImportance(fields[2])
	if err != nil {
		return nil, err
	}
	idea := model.NewIdea(fields[0], share, importance)
	if tagsField := tags.FieldAt(fields, 3); tagsField != "" {
		idea.Tags = tags.SplitList(tagsField)
	}
	idea.Context = tags.FieldAt(fields, 4)
	return idea, nil
}

func parseErrorRecord(fields []string, _ string) (*model.ErrorRecord, error) {
	if err := tags.CheckArity(tags.FamilyError, fields); err != nil {
		return nil, err
	}
	e := model.NewErrorRecord(fields[0], fields[1], fields[2], fields[3], fields[4])
	e.Context = tags.FieldAt(fields, 5)
	if tagsField := tags.FieldAt(fields, 6); tagsField != "" {
		e.Tags = tags.SplitList(tagsField)
	}
	return e, nil
}

func parseTrainingSample(fields []string, _ string) (*model.TrainingSample, error) {
	if err := tags.CheckArity(tags.FamilyTrain, fields); err != nil {
		return nil, err
	}
	// Field 3 is documented as "source-or-context": it seeds Context, and
	// Source falls back to it unless an explicit tail Source (index 6) is
	// supplied.
	sample := model.NewTrainingSample(fields[0], fields[1], fields[2], fields[3])
	sample.Context = fields[3]
	if tagsField := tags.FieldAt(fields, 4); tagsField != "" {
		sample.Tags = tags.SplitList(tagsField)
	}
	if qualityField := tags.FieldAt(fields, 5); qualityField != "" {
		q, err := strconv.ParseFloat(strings.TrimSpace(qualityField), 64)
		if err != nil || q < 0 || q > 1 {
			return nil, todozierr.Validation("invalid quality score %q", qualityField)
		}
		sample.QualityScore = &q
	}
	if sourceField := tags.FieldAt(fields, 6); sourceField != "" {
		sample.Source = sourceField
	}
	return sample, nil
}

func parseFeeling(fields []string, _ string) (*model.Feeling, error) {
	if err := tags.CheckArity(tags.FamilyFeel, fields); err != nil {
		return nil, err
	}
	intensity, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return nil, todozierr.Validation("invalid feeling intensity %q", fields[1])
	}
	f, err := model.NewFeeling(fields[0], intensity, fields[2])
	if err != nil {
		return nil, err
	}
	f.Context = tags.FieldAt(fields, 3)
	if tagsField := tags.FieldAt(fields, 4); tagsField != "" {
		f.Tags = tags.SplitList(tagsField)
	}
	return f, nil
}

func parseSummary(fields []string, _ string) (*model.Summary, error) {
	if err := tags.CheckArity(tags.FamilySummary, fields); err != nil {
		return nil, err
	}
	priority, err := model.ParsePriority(fields[1])
	if err != nil {
		return nil, err
	}
	s := model.NewSummary(fields[0], priority)
	s.Context = tags.FieldAt(fields, 2)
	if tagsField := tags.FieldAt(fields, 3); tagsField != "" {
		s.Tags = tags.SplitList(tagsField)
	}
	return s, nil
}

func parseReminder(fields []string, _ string) (*model.Reminder, error) {
	if err := tags.CheckArity(tags.FamilyReminder, fields); err != nil {
		return nil, err
	}
	remindAt, err := time.Parse(time.RFC3339, strings.TrimSpace(fields[1]))
	if err != nil {
		remindAt, err = time.Parse("2006-01-02 15:04:05", strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, todozierr.Validation("invalid remind-at %q: must be ISO-8601", fields[1])
		}
	}
	priority, err := model.ParsePriority(fields[2])
	if err != nil {
		return nil, err
	}
	r := model.NewReminder(fields[0], remindAt.UTC(), priority)
	if statusField := tags.FieldAt(fields, 3); statusField != "" {
		status, err := model.ParseReminderStatus(statusField)
		if err != nil {
			return nil, err
		}
		r.Status = status
	}
	if tagsField := tags.FieldAt(fields, 4); tagsField != "" {
		r.Tags = tags.SplitList(tagsField)
	}
	return r, nil
}

func parseCodeChunk(fields []string, _ string) (*model.CodeChunk, error) {
	if err := tags.CheckArity(tags.FamilyChunk, fields); err != nil {
		return nil, err
	}
	level, err := model.ParseChunkLevel(fields[1])
	if err != nil {
		return nil, err
	}
	var deps []string
	if depsField := tags.FieldAt(fields, 3); depsField != "" {
		deps = tags.SplitList(depsField)
	}
	c := model.NewCodeChunk(fields[0], level, fields[2], deps)
	if code := tags.FieldAt(fields, 4); code != "" {
		c.SetCode(code)
	}
	return c, nil
}

func parseAgentAssignment(fields []string, _ string) (*model.AgentAssignment, error) {
	if err := tags.CheckArity(tags.FamilyTodoziAgent, fields); err != nil {
		return nil, err
	}
	return model.NewAgentAssignment(fields[0], fields[1], fields[2]), nil
}
