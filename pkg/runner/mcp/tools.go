package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var horizonNames = []string{"intake", "quarterly", "monthly", "weekly", "daily"}

func registerTools(srv *server.MCPServer, svc *Service) {
	registerAddTaskTool(srv, svc)
	registerMoveTaskTool(srv, svc)
	registerCompleteTaskTool(srv, svc)
	registerSetPrimaryTool(srv, svc)
	registerRemoveTaskTool(srv, svc)
	registerPlanDayTool(srv, svc)
	registerSkipDayTool(srv, svc)
	registerCandidatesTool(srv, svc)
	registerCheckInTool(srv, svc)
	registerJournalTool(srv, svc)
	registerStatsTool(srv, svc)
	registerStreaksTool(srv, svc)
	registerReportTool(srv, svc)
}

func registerAddTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_task",
		mcp.WithDescription("Add a task to a horizon. Bounded horizons reject tasks once full."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("What needs doing."),
		),
		mcp.WithString("horizon",
			mcp.Description("Horizon for the task; defaults to intake."),
			mcp.Enum(horizonNames...),
		),
		mcp.WithString("project_id",
			mcp.Description("Optional project the task belongs to."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.AddTask(ctx, request.GetString("horizon", ""), text, request.GetString("project_id", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerMoveTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"move_task",
		mcp.WithDescription("Move a task to another horizon, subject to the target's capacity."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier."),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Destination horizon."),
			mcp.Enum(horizonNames...),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		to, err := request.RequireString("to")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.MoveTask(ctx, id, to)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerCompleteTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"complete_task",
		mcp.WithDescription("Mark a task done, or reopen it with completed=false."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier."),
		),
		mcp.WithBoolean("completed",
			mcp.Description("Completion state to set; defaults to true."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := struct {
			ID        string `json:"id"`
			Completed *bool  `json:"completed"`
		}{}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.ID == "" {
			return mcp.NewToolResultError("id is required"), nil
		}
		completed := args.Completed == nil || *args.Completed
		dto, err := svc.SetCompleted(ctx, args.ID, completed)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSetPrimaryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"set_primary",
		mcp.WithDescription("Make a task the single primary item of its horizon."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.SetPrimary(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerRemoveTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"remove_task",
		mcp.WithDescription("Delete a task. Without confirm=true nothing changes and a confirmation prompt is returned."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier."),
		),
		mcp.WithBoolean("confirm",
			mcp.Description("Set after the user agreed to the prompt."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := struct {
			ID      string `json:"id"`
			Confirm bool   `json:"confirm"`
		}{}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.RemoveTask(ctx, args.ID, args.Confirm)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerPlanDayTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"plan_day",
		mcp.WithDescription("Run today's setup: time and energy set the focus limit (1 to 3), then the listed tasks move in or out of daily and the plan is committed."),
		mcp.WithString("time",
			mcp.Required(),
			mcp.Description("Time available for focused work."),
			mcp.Enum("short", "medium", "long", "full"),
		),
		mcp.WithString("energy",
			mcp.Required(),
			mcp.Description("Energy available today."),
			mcp.Enum("low", "medium", "high"),
		),
		mcp.WithArray("move_in",
			mcp.Description("Task ids to pull into daily."),
			mcp.WithStringItems(),
		),
		mcp.WithArray("move_out",
			mcp.Description("Daily task ids to send back where they came from."),
			mcp.WithStringItems(),
		),
		mcp.WithString("primary",
			mcp.Description("Task id to make today's primary."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var req PlanRequest
		if err := request.BindArguments(&req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.PlanDay(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSkipDayTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"skip_day",
		mcp.WithDescription("Record that today is not being planned."),
	)

	srv.AddTool(tool, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		setup, err := svc.SkipDay(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(setup)
	})
}

func registerCandidatesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_candidates",
		mcp.WithDescription("Open tasks in coarser horizons that could be pulled into today, most recently touched first."),
	)

	srv.AddTool(tool, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cands, err := svc.Candidates(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"candidates": cands,
			"count":      len(cands),
		})
	})
}

func registerCheckInTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"check_in",
		mcp.WithDescription("Mark a habit done for a day. Checking in twice is harmless."),
		mcp.WithString("habit_id",
			mcp.Required(),
			mcp.Description("Habit identifier."),
		),
		mcp.WithString("date",
			mcp.Description("Day as YYYY-MM-DD; defaults to today."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("habit_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.CheckIn(ctx, id, request.GetString("date", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerJournalTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"write_journal",
		mcp.WithDescription("Add a journal entry dated today."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Entry text."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.WriteJournal(ctx, text)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerStatsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_stats",
		mcp.WithDescription("Summary of tasks, habits, journal and projects for the period containing today."),
		mcp.WithString("period",
			mcp.Description("Calendar period; defaults to week."),
			mcp.Enum("today", "week", "month", "quarter", "year"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		recap, err := svc.Stats(ctx, request.GetString("period", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(recap)
	})
}

func registerStreaksTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_streaks",
		mcp.WithDescription("Current and longest streak for every active habit."),
	)

	srv.AddTool(tool, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		views, err := svc.Streaks(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"streaks": views})
	})
}

func registerReportTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_report",
		mcp.WithDescription("Completed tasks, check-ins, journal entries and projects over a recent window."),
		mcp.WithString("last",
			mcp.Description("Window such as 3d, 1w2d or today; defaults to 1w."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, err := svc.Report(ctx, request.GetString("last", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(report)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
