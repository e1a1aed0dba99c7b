package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpataki/agentbuilder/internal/builder"
	"github.com/mpataki/agentbuilder/internal/catalog"
	"github.com/mpataki/agentbuilder/internal/inference"
	"github.com/mpataki/agentbuilder/internal/models"
)

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build and publish an agent without the TUI",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			description, _ := flags.GetString("description")
			role, _ := flags.GetString("role")
			responsibilities, _ := flags.GetString("responsibilities")
			completion, _ := flags.GetString("completion")
			typeName, _ := flags.GetString("type")
			name, _ := flags.GetString("name")
			starters, _ := flags.GetStringSlice("starter")
			guardrails, _ := flags.GetString("guardrails")
			sources, _ := flags.GetStringSlice("source")
			reassign, _ := flags.GetBool("reassign")
			dryRun, _ := flags.GetBool("dry-run")
			verbose, _ := flags.GetBool("verbose")

			t, err := models.ParseAgentType(typeName)
			if err != nil {
				return err
			}

			e, err := openEnv(true, false)
			if err != nil {
				return err
			}
			defer e.Close()

			c := e.svc.NewSession()
			var start builder.Input = builder.Begin{}
			if strings.TrimSpace(description) != "" {
				start = builder.Text{Value: description}
			}
			steps := []builder.Input{
				start,
				builder.Text{Value: role},
				builder.Text{Value: responsibilities},
				builder.Text{Value: completion},
			}
			for _, in := range steps {
				if err := c.Submit(in); err != nil {
					return fmt.Errorf("%s: %w", c.Step(), err)
				}
			}

			if t == models.AgentTypeUnset {
				t = c.InferredType()
				fmt.Printf("Inferred type: %s\n", t.Label())
			}

			var phrases builder.Input = builder.AcceptPhrases{}
			if len(starters) > 0 {
				phrases = builder.Text{Value: strings.Join(starters, "\n")}
			}
			var guards builder.Input = builder.SkipGuardrails{}
			if guardrails != "" {
				guards = builder.Text{Value: guardrails}
			}
			var selection builder.Input = builder.SkipSources{}
			if len(sources) > 0 {
				ids, err := resolveCatalogIDs(e.cats, sources)
				if err != nil {
					return err
				}
				selection = builder.SelectSources{IDs: ids, Reassign: reassign}
			}

			for _, in := range []builder.Input{builder.ChooseType{Type: t}, builder.ConfirmType{}, phrases, guards, selection} {
				if err := c.Submit(in); err != nil {
					return describeBuildError(c.Step(), err)
				}
			}

			if name != "" {
				if _, err := c.Apply(builder.Rename{Name: name}); err != nil {
					return err
				}
			}

			if verbose {
				printTranscript(c.Messages())
			}

			if dryRun {
				_, err := c.Finalize()
				if err != nil {
					return err
				}
				fmt.Println("Agent is ready to publish (--dry-run)")
				return nil
			}

			agent, err := e.svc.Publish(cmd.Context(), c)
			if err != nil {
				return fmt.Errorf("failed to publish: %w", err)
			}
			fmt.Printf("Published %s (%s)\n", agent.Config.Name, agent.ID)
			return nil
		},
	}

	cmd.Flags().StringP("description", "d", "", "What the agent should help with")
	cmd.Flags().String("role", "", "Role the agent plays")
	cmd.Flags().String("responsibilities", "", "Main responsibilities")
	cmd.Flags().String("completion", "", "What a successful conversation looks like")
	cmd.Flags().StringP("type", "t", "", "answer, knowledge or workflow (default: inferred)")
	cmd.Flags().StringP("name", "n", "", "Agent name (default: derived from the role)")
	cmd.Flags().StringSlice("starter", nil, "Conversation starter (repeatable; default: suggested)")
	cmd.Flags().StringP("guardrails", "g", "", "Comma separated topics to refuse")
	cmd.Flags().StringSliceP("source", "s", nil, "Knowledge source or workflow id or name (repeatable)")
	cmd.Flags().Bool("reassign", false, "Take over workflows linked to other agents")
	cmd.Flags().Bool("dry-run", false, "Validate without publishing")
	cmd.Flags().BoolP("verbose", "v", false, "Print the builder conversation")
	cmd.MarkFlagRequired("role")
	cmd.MarkFlagRequired("responsibilities")
	cmd.MarkFlagRequired("completion")
	return cmd
}

func describeBuildError(step builder.Step, err error) error {
	var linkErr *builder.LinkedWorkflowError
	if errors.As(err, &linkErr) {
		return fmt.Errorf("%w (pass --reassign to take them over)", err)
	}
	return fmt.Errorf("%s: %w", step, err)
}

// resolveCatalogIDs accepts ids or names of knowledge sources and workflows.
func resolveCatalogIDs(cats *catalog.Static, values []string) ([]string, error) {
	var ids []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if _, ok := cats.Source(v); ok {
			ids = append(ids, v)
			continue
		}
		if _, ok := cats.Workflow(v); ok {
			ids = append(ids, v)
			continue
		}
		if src, ok := catalog.SourceByName(cats, v); ok {
			ids = append(ids, src.ID)
			continue
		}
		if wf, ok := catalog.WorkflowByName(cats, v); ok {
			ids = append(ids, wf.ID)
			continue
		}
		return nil, fmt.Errorf("%q is not a known knowledge source or workflow", v)
	}
	return ids, nil
}

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			e, err := openEnv(true, false)
			if err != nil {
				return err
			}
			defer e.Close()

			agents, err := e.svc.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(agents) == 0 {
				fmt.Println("No agents found.")
				return nil
			}

			for _, agent := range agents {
				fmt.Printf("%s  %-24s [%s] %s\n",
					agent.ID[:min(8, len(agent.ID))], agent.Config.Name, agent.Config.Type,
					truncate(agent.Config.Description, 50))
			}

			return nil
		},
	}
	cmd.Flags().IntP("limit", "l", 20, "Maximum number of agents")
	return cmd
}

func newShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <agent-id>",
		Short: "Show an agent's configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			withTranscript, _ := cmd.Flags().GetBool("transcript")

			e, err := openEnv(true, false)
			if err != nil {
				return err
			}
			defer e.Close()

			agent, err := e.svc.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get agent: %w", err)
			}
			cfg := agent.Config

			fmt.Printf("%s (%s)\n", cfg.Name, agent.ID)
			fmt.Printf("Type: %s\n", cfg.Type.Label())
			if cfg.Description != "" {
				fmt.Printf("Description: %s\n", cfg.Description)
			}
			fmt.Printf("Role: %s\n", cfg.Role)
			fmt.Printf("Knowledge: %s\n", joinOrNone(cfg.KnowledgeSources))
			fmt.Printf("Workflows: %s\n", joinOrNone(cfg.Workflows))
			fmt.Printf("Guardrails: %s\n", joinOrNone(cfg.Guardrails))
			fmt.Printf("Web search: %t  Image generation: %t  Workspace content: %t\n",
				cfg.WebSearch, cfg.ImageGeneration, cfg.UseAllWorkspaceContent)

			if len(cfg.ConversationStarters) > 0 {
				fmt.Println("\nConversation starters:")
				for _, s := range cfg.ConversationStarters {
					fmt.Printf("  - %s\n", s)
				}
			}
			if cfg.Instructions != "" {
				fmt.Printf("\nInstructions:\n%s\n", cfg.Instructions)
			}
			if withTranscript {
				fmt.Println()
				printTranscript(agent.Transcript)
			}
			return nil
		},
	}
	cmd.Flags().Bool("transcript", false, "Also print the builder conversation")
	return cmd
}

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <agent-id> <message>",
		Short: "Send a preview message to an agent",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(true, false)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			chat, err := e.svc.Preview(ctx, args[0])
			if err != nil {
				return err
			}
			if err := chat.Send(ctx, strings.Join(args[1:], " ")); err != nil {
				return err
			}

			msgs := chat.Messages()
			fmt.Println(msgs[len(msgs)-1].Content)
			return nil
		},
	}
}

func newEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <agent-id> <command>",
		Short: "Change a published agent, e.g. \"add guardrail salary\"",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(true, false)
			if err != nil {
				return err
			}
			defer e.Close()

			_, reply, err := e.svc.Command(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if reply != "" {
				fmt.Println(reply)
			}
			return err
		},
	}
}

func newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <agent-id> [dir]",
		Short: "Write an agent bundle to disk",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(true, false)
			if err != nil {
				return err
			}
			defer e.Close()

			dir := ""
			if len(args) == 2 {
				dir = args[1]
			}
			b, err := e.svc.Export(cmd.Context(), args[0], dir)
			if err != nil {
				return err
			}
			fmt.Printf("Exported to %s\n", b.Dir)
			return nil
		},
	}
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <agent-id>",
		Short: "Delete a published agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(true, false)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.svc.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete agent: %w", err)
			}
			fmt.Printf("Deleted agent %s\n", args[0])
			return nil
		},
	}
}

func newClassifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Show which agent type a description suggests",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := personaFromFlags(cmd)
			fmt.Println(inference.ClassifyAgentType(cfg).String())
			return nil
		},
	}
	addPersonaFlags(cmd)
	return cmd
}

func newSuggestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Show suggested name, starters and knowledge sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(false, false)
			if err != nil {
				return err
			}
			defer e.Close()

			cfg := personaFromFlags(cmd)
			fmt.Printf("Name: %s\n", inference.SuggestName(cfg))
			fmt.Printf("Type: %s\n", inference.ClassifyAgentType(cfg).Label())

			fmt.Println("\nConversation starters:")
			for _, p := range inference.GenerateTriggerPhrases(cfg) {
				fmt.Printf("  - %s\n", p)
			}

			fmt.Println("\nKnowledge sources:")
			scored := inference.ScoreSources(cfg, e.cats)
			if len(scored) == 0 {
				fmt.Println("  (none relevant)")
			}
			for i, s := range scored {
				if i == inference.MaxSuggestedSources {
					break
				}
				fmt.Printf("  %-22s %-24s score %d\n", s.Source.ID, s.Source.Name, s.Score)
			}
			return nil
		},
	}
	addPersonaFlags(cmd)
	return cmd
}

func addPersonaFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("description", "d", "", "What the agent should help with")
	cmd.Flags().String("role", "", "Role the agent plays")
	cmd.Flags().String("responsibilities", "", "Main responsibilities")
	cmd.Flags().String("completion", "", "What a successful conversation looks like")
}

func personaFromFlags(cmd *cobra.Command) *models.AgentConfig {
	flags := cmd.Flags()
	cfg := &models.AgentConfig{}
	cfg.Description, _ = flags.GetString("description")
	cfg.Role, _ = flags.GetString("role")
	cfg.Responsibilities, _ = flags.GetString("responsibilities")
	cfg.CompletionCriteria, _ = flags.GetString("completion")
	return cfg
}

func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "catalog [sources|workflows|icons]",
		Short:     "List the knowledge sources, workflows and icons available",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"sources", "workflows", "icons"},
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("search")

			e, err := openEnv(false, false)
			if err != nil {
				return err
			}
			defer e.Close()

			kind := ""
			if len(args) == 1 {
				kind = args[0]
			}

			if kind == "" || kind == "sources" {
				fmt.Println("Knowledge sources:")
				for _, src := range catalog.SearchSources(e.cats, query) {
					fmt.Printf("  %-22s %-22s %-10s %s\n", src.ID, src.Name, src.Kind, truncate(src.Description, 50))
				}
			}
			if kind == "" || kind == "workflows" {
				fmt.Println("Workflows:")
				for _, wf := range catalog.SearchWorkflows(e.cats, query) {
					linked := ""
					if wf.LinkedAgent != "" {
						linked = "(linked to " + wf.LinkedAgent + ")"
					}
					fmt.Printf("  %-24s %-22s %-12s %s\n", wf.ID, wf.Name, wf.Category, linked)
				}
			}
			if kind == "icons" {
				for _, icon := range e.cats.Icons() {
					fmt.Printf("  %s  %-8s %s\n", icon.Glyph, icon.ID, icon.Name)
				}
				fmt.Println("Colors:")
				for _, c := range e.cats.Colors() {
					fmt.Printf("  %-8s %s\n", c.ID, c.Hex)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringP("search", "q", "", "Filter by name, description or tag")
	return cmd
}

func printTranscript(msgs []models.Message) {
	for _, m := range msgs {
		who := "builder"
		if m.Role == models.RoleUser {
			who = "you"
		}
		fmt.Printf("[%s] %s\n\n", who, m.Content)
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

