// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package cfg

import "fillmore-labs.com/releaseguard/ir"

// builder constructs the control-flow graph.
// It traverses the procedure body and creates blocks and edges based on
// control-flow semantics.
//
// The append* methods return the next basic [Block] where operations should
// be added. A block returned this way never has outgoing edges yet.
type builder struct {
	blocks []*Block
	loops  []loopFrame // current break/continue targets, innermost last
}

// loopFrame holds the branch targets of one enclosing loop.
type loopFrame struct {
	head, after *Block
}

// Build constructs the control-flow graph for a procedure, or nil when
// construction is not defined for the procedure's body shape
// (expression-bodied procedures have no graph).
func Build(p *ir.Procedure) *Graph {
	if p == nil || p.Body == nil {
		return nil
	}

	b := &builder{}

	entry := b.newBlock(nil)
	last := b.appendStmtList(entry, p.Body.Stmts, nil)

	exit := b.newBlock(nil)
	last.Succ = exit

	return &Graph{Entry: entry, Exit: exit, Blocks: b.blocks}
}

// newBlock creates a block enclosed by region and registers it in the graph.
func (b *builder) newBlock(region *Region) *Block {
	block := &Block{Index: len(b.blocks), Region: region}
	b.blocks = append(b.blocks, block)

	return block
}

// appendStmtList appends a list of statements to the current block.
func (b *builder) appendStmtList(current *Block, stmts []ir.Stmt, region *Region) *Block {
	for _, s := range stmts {
		current = b.appendStmt(current, s, region)
	}

	return current
}

// appendStmt appends a single statement to the current block.
func (b *builder) appendStmt(current *Block, stmt ir.Stmt, region *Region) *Block {
	switch stmt := stmt.(type) {
	case *ir.Acquire, *ir.Call, *ir.Closure:
		current.Ops = append(current.Ops, stmt)

		return current

	case *ir.Return, *ir.Throw:
		current.Ops = append(current.Ops, stmt)

		return b.newBlock(region) // unreachable after exit

	case *ir.Break:
		current.Ops = append(current.Ops, stmt)
		if f := b.innermostLoop(); f != nil {
			current.Succ = f.after
		}

		return b.newBlock(region) // unreachable after break

	case *ir.Continue:
		current.Ops = append(current.Ops, stmt)
		if f := b.innermostLoop(); f != nil {
			current.Succ = f.head
		}

		return b.newBlock(region) // unreachable after continue

	case *ir.If:
		return b.appendIf(current, stmt, region)

	case *ir.Loop:
		return b.appendLoop(current, stmt, region)

	case *ir.Try:
		return b.appendTry(current, stmt, region)

	default:
		return current
	}
}

// appendIf handles two-way branches. The branch edge leads into the then
// block, the fallthrough edge into the else block or past the statement.
func (b *builder) appendIf(current *Block, stmt *ir.If, region *Region) *Block {
	then := b.newBlock(region)
	after := b.newBlock(region)

	thenEnd := b.appendStmtList(then, stmtsOf(stmt.Then), region)
	thenEnd.Succ = after

	elseTarget := after

	if stmt.Else != nil {
		elseBlock := b.newBlock(region)

		elseEnd := b.appendStmtList(elseBlock, stmt.Else.Stmts, region)
		elseEnd.Succ = after
		elseTarget = elseBlock
	}

	current.Branch = then
	current.Succ = elseTarget

	return after
}

// appendLoop handles loop-like regions. The head branches into the body and
// falls through past the loop; the body ends with a back-edge to the head.
func (b *builder) appendLoop(current *Block, stmt *ir.Loop, region *Region) *Block {
	loopRegion := &Region{Kind: RegionLoop, Parent: region}

	head := b.newBlock(loopRegion)
	current.Succ = head

	after := b.newBlock(region)
	body := b.newBlock(loopRegion)

	head.Branch = body
	head.Succ = after

	b.loops = append(b.loops, loopFrame{head: head, after: after})
	bodyEnd := b.appendStmtList(body, stmtsOf(stmt.Body), loopRegion)
	b.loops = b.loops[:len(b.loops)-1]

	bodyEnd.Succ = head // back-edge

	return after
}

// appendTry handles protected regions. A dispatch block branches into the
// handler to model the exception edge; normal completion of the body and the
// handler runs the finally region before leaving.
func (b *builder) appendTry(current *Block, stmt *ir.Try, region *Region) *Block {
	tryRegion := &Region{Kind: RegionTry, Parent: region}

	head := b.newBlock(tryRegion)
	current.Succ = head

	body := b.newBlock(tryRegion)
	head.Succ = body
	bodyEnd := b.appendStmtList(body, stmtsOf(stmt.Body), tryRegion)

	after := b.newBlock(region)

	// Normal completion target: the finally region when present.
	target := after

	if stmt.Finally != nil {
		finallyRegion := &Region{Kind: RegionFinally, Parent: region}

		finally := b.newBlock(finallyRegion)
		finallyEnd := b.appendStmtList(finally, stmt.Finally.Stmts, finallyRegion)
		finallyEnd.Succ = after
		target = finally
	}

	bodyEnd.Succ = target

	if stmt.Catch != nil {
		catchRegion := &Region{Kind: RegionCatch, Parent: region}

		catch := b.newBlock(catchRegion)
		head.Branch = catch

		catchEnd := b.appendStmtList(catch, stmt.Catch.Stmts, catchRegion)
		catchEnd.Succ = target
	}

	return after
}

// innermostLoop returns the current loop frame, or nil outside any loop.
func (b *builder) innermostLoop() *loopFrame {
	if len(b.loops) == 0 {
		return nil
	}

	return &b.loops[len(b.loops)-1]
}

func stmtsOf(block *ir.Block) []ir.Stmt {
	if block == nil {
		return nil
	}

	return block.Stmts
}
