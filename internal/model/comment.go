package model

// 表头固定列名
const (
	ColumnCommentID = "comment_id"
	ColumnComment   = "comment"
	ColumnEssayID   = "essay_id"
	ColumnExcerpt   = "excerpt"
	ColumnEssay     = "essay"
)

// CommentRecord 评语行（经表头 schema 解码）
type CommentRecord struct {
	Row       int      // 行号（0 起，含表头）
	CommentID string   // comment_id
	EssayID   string   // essay_id，可为空
	Excerpt   string   // excerpt，可为空
	Comment   string   // comment
	Traits    TraitSet // 六项特质
	Cells     []string // 原始单元格（已补齐到表头宽度）
}

// Clone 深拷贝，避免派生行共享底层单元格
func (r CommentRecord) Clone() CommentRecord {
	out := r
	out.Cells = append([]string(nil), r.Cells...)
	return out
}

// LabeledComment 前端提交的单条评语标注
type LabeledComment struct {
	CommentID string   `json:"comment_id"`
	Sentences []string `json:"sentences"`
	Labels    []string `json:"labels"`
	Excerpt   string   `json:"excerpt,omitempty"`
	Comment   string   `json:"comment,omitempty"`
}

// AnnotateRequest 标注提交请求
type AnnotateRequest struct {
	EssayID         string           `json:"essayId"`
	LabeledComments []LabeledComment `json:"labeledComments"`
}

// AnnotateResult 标注提交结果
type AnnotateResult struct {
	Success             bool `json:"success"`
	OriginalRowsUpdated int  `json:"originalRowsUpdated"`
	NewRowsAdded        int  `json:"newRowsAdded"`
}

// ErrorResponse 统一错误响应
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
