package ast

type NodeType int

const (
	ILLEGAL NodeType = iota
	BAD_EXPR
	BAD_STMT

	IDENT
	NUMBER_LIT

	BINARY_EXPR
	UNARY_EXPR
	ROLL_EXPR
	IN_EXPR
	CALL_EXPR
	PAREN_EXPR

	VAR_STMT
	EXPR_STMT

	PROGRAM
)

// Node is implemented by every syntax tree element: statements, expressions
// and identifiers alike.
type Node interface {
	NodePos() Position
	NodeEndPos() Position
	NodeType() NodeType
	String() string

	GetMetadata() *Metadata
	SetMetadata(*Metadata)
}

// Expr is a Node that produces a value when evaluated.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a Node that the driver executes for effect (definition) or to
// obtain a top-level result.
type Stmt interface {
	Node
	stmtNode()
}

func (*Ident) exprNode()      {}
func (*NumberLit) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*UnaryExpr) exprNode()  {}
func (*RollExpr) exprNode()   {}
func (*InExpr) exprNode()     {}
func (*CallExpr) exprNode()   {}
func (*ParenExpr) exprNode()  {}
func (*BadExpr) exprNode()    {}

func (*VarStmt) stmtNode()  {}
func (*ExprStmt) stmtNode() {}
func (*BadStmt) stmtNode()  {}

func (i *Ident) NodePos() Position    { return i.Pos }
func (i *Ident) NodeEndPos() Position { return i.EndPos }
func (*Ident) NodeType() NodeType     { return IDENT }
func (i *Ident) GetMetadata() *Metadata  { return i.metadata }
func (i *Ident) SetMetadata(m *Metadata) { i.metadata = m }

func (n *NumberLit) NodePos() Position    { return n.Pos }
func (n *NumberLit) NodeEndPos() Position { return n.EndPos }
func (*NumberLit) NodeType() NodeType     { return NUMBER_LIT }
func (n *NumberLit) GetMetadata() *Metadata  { return n.metadata }
func (n *NumberLit) SetMetadata(m *Metadata) { n.metadata = m }

func (b *BinaryExpr) NodePos() Position    { return b.Pos }
func (b *BinaryExpr) NodeEndPos() Position { return b.EndPos }
func (*BinaryExpr) NodeType() NodeType     { return BINARY_EXPR }
func (b *BinaryExpr) GetMetadata() *Metadata  { return b.metadata }
func (b *BinaryExpr) SetMetadata(m *Metadata) { b.metadata = m }

func (u *UnaryExpr) NodePos() Position    { return u.Pos }
func (u *UnaryExpr) NodeEndPos() Position { return u.EndPos }
func (*UnaryExpr) NodeType() NodeType     { return UNARY_EXPR }
func (u *UnaryExpr) GetMetadata() *Metadata  { return u.metadata }
func (u *UnaryExpr) SetMetadata(m *Metadata) { u.metadata = m }

func (r *RollExpr) NodePos() Position    { return r.Pos }
func (r *RollExpr) NodeEndPos() Position { return r.EndPos }
func (*RollExpr) NodeType() NodeType     { return ROLL_EXPR }
func (r *RollExpr) GetMetadata() *Metadata  { return r.metadata }
func (r *RollExpr) SetMetadata(m *Metadata) { r.metadata = m }

func (in *InExpr) NodePos() Position    { return in.Pos }
func (in *InExpr) NodeEndPos() Position { return in.EndPos }
func (*InExpr) NodeType() NodeType      { return IN_EXPR }
func (in *InExpr) GetMetadata() *Metadata  { return in.metadata }
func (in *InExpr) SetMetadata(m *Metadata) { in.metadata = m }

func (c *CallExpr) NodePos() Position    { return c.Pos }
func (c *CallExpr) NodeEndPos() Position { return c.EndPos }
func (*CallExpr) NodeType() NodeType     { return CALL_EXPR }
func (c *CallExpr) GetMetadata() *Metadata  { return c.metadata }
func (c *CallExpr) SetMetadata(m *Metadata) { c.metadata = m }

func (p *ParenExpr) NodePos() Position    { return p.Pos }
func (p *ParenExpr) NodeEndPos() Position { return p.EndPos }
func (*ParenExpr) NodeType() NodeType     { return PAREN_EXPR }
func (p *ParenExpr) GetMetadata() *Metadata  { return p.metadata }
func (p *ParenExpr) SetMetadata(m *Metadata) { p.metadata = m }

func (b *BadExpr) NodePos() Position    { return b.Bad.Pos }
func (b *BadExpr) NodeEndPos() Position { return b.Bad.EndPos }
func (*BadExpr) NodeType() NodeType     { return BAD_EXPR }
func (b *BadExpr) GetMetadata() *Metadata  { return b.Bad.metadata }
func (b *BadExpr) SetMetadata(m *Metadata) { b.Bad.metadata = m }

func (v *VarStmt) NodePos() Position    { return v.Pos }
func (v *VarStmt) NodeEndPos() Position { return v.EndPos }
func (*VarStmt) NodeType() NodeType     { return VAR_STMT }
func (v *VarStmt) GetMetadata() *Metadata  { return v.metadata }
func (v *VarStmt) SetMetadata(m *Metadata) { v.metadata = m }

func (e *ExprStmt) NodePos() Position    { return e.Pos }
func (e *ExprStmt) NodeEndPos() Position { return e.EndPos }
func (*ExprStmt) NodeType() NodeType     { return EXPR_STMT }
func (e *ExprStmt) GetMetadata() *Metadata  { return e.metadata }
func (e *ExprStmt) SetMetadata(m *Metadata) { e.metadata = m }

func (b *BadStmt) NodePos() Position    { return b.Bad.Pos }
func (b *BadStmt) NodeEndPos() Position { return b.Bad.EndPos }
func (*BadStmt) NodeType() NodeType     { return BAD_STMT }
func (b *BadStmt) GetMetadata() *Metadata  { return b.Bad.metadata }
func (b *BadStmt) SetMetadata(m *Metadata) { b.Bad.metadata = m }

func (p *Program) NodePos() Position    { return p.Pos }
func (p *Program) NodeEndPos() Position { return p.EndPos }
func (*Program) NodeType() NodeType     { return PROGRAM }
func (p *Program) GetMetadata() *Metadata  { return p.metadata }
func (p *Program) SetMetadata(m *Metadata) { p.metadata = m }
