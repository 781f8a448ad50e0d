package mcp

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mloncour/menagerie/internal/game"
	"github.com/mloncour/menagerie/internal/sim"
)

// activeSession is the singleton game session (one per stdio process).
var activeSession *GameSession

// cardSet is the definition set used for new games, set by main.
var cardSet []*game.CardDef

// SetCardSet sets the definitions used by start_game.
func SetCardSet(defs []*game.CardDef) {
	cardSet = defs
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startGameTool(), handleStartGame)
	s.AddTool(getStateTool(), handleGetState)
	s.AddTool(submitPurchasesTool(), handleSubmitPurchases)
	s.AddTool(playCardTool(), handlePlayCard)
	s.AddTool(replaceCardTool(), handleReplaceCard)
	s.AddTool(passTool(), handlePass)
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new Menagerie game. You occupy one seat; bot agents fill the rest. "+
			"Returns the initial state and the first pending decision."),
		mcp.WithNumber("players", mcp.Required(), mcp.Description("Number of players (2-8)")),
		mcp.WithNumber("seat", mcp.Description("Your seat index (default 0)")),
		mcp.WithNumber("seed", mcp.Description("Random seed (default 1)")),
		mcp.WithString("bots", mcp.Description("Bot strength for the other seats: 'random' or 'greedy'")),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get accumulated events and the pending decision without submitting anything. Read-only."))
}

func submitPurchasesTool() mcp.Tool {
	return mcp.NewTool("submit_purchases",
		mcp.WithDescription("Answer a 'choose_purchases' decision with the revealed instance IDs to buy, "+
			"within your PO budget. An illegal set is rejected and asked again."),
		mcp.WithString("ids", mcp.Required(), mcp.Description("Space-separated instance IDs, or empty string to buy nothing")),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Answer a 'choose_board_action' decision by playing a hand card to your board."),
		mcp.WithNumber("hand_id", mcp.Required(), mcp.Description("Instance ID of the hand card to play")),
	)
}

func replaceCardTool() mcp.Tool {
	return mcp.NewTool("replace_card",
		mcp.WithDescription("Answer a 'choose_board_action' decision by swapping a board card for a hand card."),
		mcp.WithNumber("hand_id", mcp.Required(), mcp.Description("Instance ID of the incoming hand card")),
		mcp.WithNumber("board_id", mcp.Required(), mcp.Description("Instance ID of the board card returning to hand")),
	)
}

func passTool() mcp.Tool {
	return mcp.NewTool("pass",
		mcp.WithDescription("Answer a 'choose_board_action' decision by passing. Legal only with an empty hand."))
}

// --- Tool handlers ---

func handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession != nil && activeSession.current != nil && activeSession.current.Type != DecisionGameOver {
		return mcp.NewToolResultError("A game is already running. Finish it before starting another."), nil
	}
	if cardSet == nil {
		return mcp.NewToolResultError("No card set loaded."), nil
	}

	players := request.GetInt("players", 2)
	seat := request.GetInt("seat", 0)
	seed := int64(request.GetInt("seed", 1))
	bots := sim.RandomAgents
	if request.GetString("bots", "random") == "greedy" {
		bots = sim.GreedyAgents
	}

	sess, err := NewGameSession(cardSet, players, seat, seed, bots)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	activeSession = sess
	return jsonResult(sess.response())
}

func handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No game running. Call start_game first."), nil
	}
	return jsonResult(activeSession.response())
}

func handleSubmitPurchases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireDecision(DecisionChoosePurchases)
	if errResult != nil {
		return errResult, nil
	}

	var ids []int
	for _, field := range strings.Fields(request.GetString("ids", "")) {
		id, err := strconv.Atoi(field)
		if err != nil {
			return mcp.NewToolResultErrorf("bad instance ID %q", field), nil
		}
		ids = append(ids, id)
	}
	sess.respond(PurchasesResponse{IDs: ids})
	return jsonResult(sess.response())
}

func handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireDecision(DecisionChooseBoardAction)
	if errResult != nil {
		return errResult, nil
	}
	sess.respond(BoardActionResponse{Action: game.BoardAction{
		Type:   game.ActionPlay,
		HandID: request.GetInt("hand_id", 0),
	}})
	return jsonResult(sess.response())
}

func handleReplaceCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireDecision(DecisionChooseBoardAction)
	if errResult != nil {
		return errResult, nil
	}
	sess.respond(BoardActionResponse{Action: game.BoardAction{
		Type:    game.ActionReplace,
		HandID:  request.GetInt("hand_id", 0),
		BoardID: request.GetInt("board_id", 0),
	}})
	return jsonResult(sess.response())
}

func handlePass(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireDecision(DecisionChooseBoardAction)
	if errResult != nil {
		return errResult, nil
	}
	sess.respond(BoardActionResponse{Action: game.BoardAction{Type: game.ActionPass}})
	return jsonResult(sess.response())
}

func requireDecision(want DecisionType) (*GameSession, *mcp.CallToolResult) {
	if activeSession == nil {
		return nil, mcp.NewToolResultError("No game running. Call start_game first.")
	}
	cur := activeSession.current
	if cur == nil || cur.Type != want {
		got := "none"
		if cur != nil {
			got = string(cur.Type)
		}
		return nil, mcp.NewToolResultErrorf("Pending decision is %s, not %s.", got, want)
	}
	return activeSession, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultErrorf("encode response: %v", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
