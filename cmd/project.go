package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	projectName    string
	projectMembers int
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create and list projects of eligible employees",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project from randomly selected eligible employees",
	Long: `Create picks --members employees whose JobSatisfaction (or PerformanceLevel)
meets the score threshold and records them under --name. The dataset must have
an EmpID or EmpName column. Project names are unique within a session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		p, err := s.CreateProject(projectName, projectMembers)
		if err != nil {
			return err
		}
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Project '%s' created with members: %s\n", p.Name, p.MemberList())
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the projects created in this session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		projects := s.Projects()
		if len(projects) == 0 {
			fmt.Fprintln(out, "(no projects)")
			return nil
		}
		heading(out, "Created Projects")
		rows := make([][]string, 0, len(projects))
		for _, p := range projects {
			rows = append(rows, []string{p.Name, p.MemberList()})
		}
		printTable(out, []string{"Project Name", "Members"}, rows)
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().StringVarP(&projectName, "name", "n", "", "project name")
	projectCreateCmd.Flags().IntVarP(&projectMembers, "members", "m", 1, "number of members to select")
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
}
