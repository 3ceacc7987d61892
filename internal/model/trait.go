package model

import "strings"

// Trait 写作特质（六项固定维度），值为界面展示名
type Trait string

const (
	TraitIdeas           Trait = "Ideas"
	TraitOrganization    Trait = "Organization"
	TraitVoice           Trait = "Voice"
	TraitWordChoice      Trait = "Word Choice"
	TraitSentenceFluency Trait = "Sentence Fluency"
	TraitConventions     Trait = "Conventions"
)

// Traits 固定顺序，与表头列顺序无关
var Traits = []Trait{
	TraitIdeas,
	TraitOrganization,
	TraitVoice,
	TraitWordChoice,
	TraitSentenceFluency,
	TraitConventions,
}

var traitColumns = map[Trait]string{
	TraitIdeas:           "ideas",
	TraitOrganization:    "organization",
	TraitVoice:           "voice",
	TraitWordChoice:      "word_choice",
	TraitSentenceFluency: "sentence_fluency",
	TraitConventions:     "conventions",
}

// Column 返回特质对应的表头列名
func (t Trait) Column() string {
	return traitColumns[t]
}

// ParseTrait 按展示名精确匹配（区分大小写）
func ParseTrait(label string) (Trait, bool) {
	t := Trait(label)
	_, ok := traitColumns[t]
	return t, ok
}

// TraitSet 特质集合（位图）
type TraitSet uint8

func traitBit(t Trait) TraitSet {
	for i, known := range Traits {
		if known == t {
			return 1 << uint(i)
		}
	}
	return 0
}

// With 返回加入 t 之后的集合；未知特质不改变集合
func (s TraitSet) With(t Trait) TraitSet {
	return s | traitBit(t)
}

// Has 判断是否包含特质
func (s TraitSet) Has(t Trait) bool {
	bit := traitBit(t)
	return bit != 0 && s&bit != 0
}

// Flag 以 "0"/"1" 形式返回单个特质的单元格值
func (s TraitSet) Flag(t Trait) string {
	if s.Has(t) {
		return "1"
	}
	return "0"
}

// Labels 按固定顺序返回集合中的特质
func (s TraitSet) Labels() []Trait {
	var out []Trait
	for _, t := range Traits {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s TraitSet) String() string {
	labels := s.Labels()
	parts := make([]string, len(labels))
	for i, t := range labels {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// TraitSetFromLabels 汇总标签；未知标签单独返回，不视为错误
func TraitSetFromLabels(labels []string) (TraitSet, []string) {
	var set TraitSet
	var unknown []string
	for _, label := range labels {
		t, ok := ParseTrait(label)
		if !ok {
			unknown = append(unknown, label)
			continue
		}
		set = set.With(t)
	}
	return set, unknown
}

// ParseFlag 解析特质单元格，"1" 以外一律视为未选中
func ParseFlag(cell string) bool {
	return strings.TrimSpace(cell) == "1"
}
