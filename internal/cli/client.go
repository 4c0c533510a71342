package cli

import (
	"fmt"
	"net"
	"os"

	"github.com/ignitekv/ignite/internal/proto"
	"github.com/ignitekv/ignite/pkg/config"
	"github.com/spf13/cobra"
)

// NewClientCommand builds the ignite-client root command, with get/set/rm
// subcommands each taking their own --addr flag.
func NewClientCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ignite-client",
		Short:         "Talk to an ignite-server instance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newGetCommand(), newSetCommand(), newRmCommand())
	return cmd
}

func addrFlag(cmd *cobra.Command) *string {
	addr := cmd.Flags().String("addr", config.DefaultAddr, "IP:PORT of the ignite-server to connect to")
	return addr
}

func newGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Get the string value of a given string key",
		Args:  cobra.ExactArgs(1),
	}
	addr := addrFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		resp, err := roundTrip(*addr, proto.Request{Op: proto.OpGet, Key: args[0]})
		if err != nil {
			return err
		}
		if !resp.OK {
			return fmt.Errorf("%s", resp.Err)
		}
		if !resp.Found {
			fmt.Println("Key not found")
			return nil
		}
		fmt.Println(resp.Val)
		return nil
	}
	return cmd
}

func newSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set the value of a string key to a string",
		Args:  cobra.ExactArgs(2),
	}
	addr := addrFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		resp, err := roundTrip(*addr, proto.Request{Op: proto.OpSet, Key: args[0], Val: args[1]})
		if err != nil {
			return err
		}
		if !resp.OK {
			return fmt.Errorf("%s", resp.Err)
		}
		return nil
	}
	return cmd
}

func newRmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm KEY",
		Short: "Remove a given key",
		Args:  cobra.ExactArgs(1),
	}
	addr := addrFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		resp, err := roundTrip(*addr, proto.Request{Op: proto.OpRemove, Key: args[0]})
		if err != nil {
			return err
		}
		if !resp.OK {
			fmt.Fprintln(os.Stderr, resp.Err)
			os.Exit(1)
		}
		return nil
	}
	return cmd
}

func roundTrip(addr string, req proto.Request) (proto.Response, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return proto.Response{}, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	if err := proto.WriteMessage(conn, req); err != nil {
		return proto.Response{}, err
	}

	var resp proto.Response
	if err := proto.ReadMessage(conn, &resp); err != nil {
		return proto.Response{}, err
	}
	return resp, nil
}
