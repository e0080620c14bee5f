package responder

import (
	"fmt"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
)

// draft is the reply under construction. Each stage reads it and returns an extended copy.
type draft struct {
	question string
	lower    string

	category category
	topic    category

	content string
	table   *domain.TableData
}

type stage interface {
	Name() string
	Run(d draft) draft
}

// classifyStage sets the reply category and the table topic.
type classifyStage struct{}

func (classifyStage) Name() string { return "classify" }

func (classifyStage) Run(d draft) draft {
	d.category = classify(d.lower)
	d.topic = topicFor(d.category, d.lower)
	return d
}

// composeStage writes the reply body: a fixed text or one of the category's templates.
type composeStage struct {
	pick Selector
}

func (composeStage) Name() string { return "compose" }

func (s composeStage) Run(d draft) draft {
	switch d.category {
	case categoryGreeting:
		d.content = greetingReply
		return d
	case categoryThanks:
		d.content = thanksReply
		return d
	case categoryHelp:
		d.content = helpReply
		return d
	}

	set, ok := templates[d.category]
	if !ok {
		set = templates[categoryDefault]
	}
	i := s.pick(len(set))
	if i < 0 || i >= len(set) {
		i = 0
	}
	d.content = fmt.Sprintf(set[i], d.question)
	return d
}

type followUpStage struct{}

func (followUpStage) Name() string { return "follow-up" }

func (followUpStage) Run(d draft) draft {
	d.content += followUps[d.topic]
	return d
}

// tableStage attaches a fixture copy when the topic has one and the question asks for data.
type tableStage struct{}

func (tableStage) Name() string { return "table" }

func (tableStage) Run(d draft) draft {
	if kind, ok := tableFixtures[d.topic]; ok && wantsTable(d.lower) {
		d.table = domain.MockTable(kind)
	}
	return d
}
