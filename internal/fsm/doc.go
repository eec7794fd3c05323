/*
Package fsm compiles color-coded definition pictures into state graphs and
matches those graphs against target pictures.

A definition picture plays the role of a regular expression and a target
picture the role of the subject text: pixels are characters and colors are
tokens, but matching is two dimensional and spatially anchored.

The package has two halves:

 1. Compilation (Builder). The builder locates the Function-colored anchor
    pixel, then walks every connected pixel whose color is registered in the
    RoleTable, depth first, in geom.Neighbors order. Each visited pixel becomes
    a Consume transition and each step to a neighbour becomes a MoveRelative
    transition anchored on the state where the previous pixel was entered.
    Runs of two or more identical loop-marker pixels (green = blue = 0,
    red != 255) compile into a repeat sub-graph wrapped in a capture group:

    BeginCapture(g) -> split{MoveRelative(split, d), Epsilon(join)}
    -> Consume(c) -> join{Epsilon(split), EndCapture(g)}

 2. Matching (Graph.Identify). An ordered depth-first backtracking search
    starting at the target's first Function-colored pixel. Alternatives are
    tried in edge insertion order and the first accepting leaf wins. Every
    pass through a capture group with the same id must consume the same
    number of pixels, and no target pixel is consumed twice on one path.

A compiled Graph is immutable and may be shared by concurrent Identify calls.
*/
package fsm
