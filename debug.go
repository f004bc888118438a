package handkinematics

import (
	"image/color"
	"io"

	"github.com/golang/geo/r3"

	"go.viam.com/rdk/pointcloud"

	handpose "github.com/biotinker/handkinematics/hand_pose"
)

// WriteJointCloud writes the solved joint positions (white) and the frame's
// input keypoints (red) as an ASCII PCD point cloud, for offline inspection
// of how tightly the fit landed. Joints that failed validation are skipped.
func WriteJointCloud(w io.Writer, set *handpose.JointSet, keypoints []r3.Vector) error {
	cloud := pointcloud.NewBasicEmpty()
	jointData := pointcloud.NewColoredData(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	targetData := pointcloud.NewColoredData(color.NRGBA{R: 220, G: 40, B: 40, A: 255})

	if set != nil {
		for i := range set.Joints {
			jp := &set.Joints[i]
			if !jp.Flags.Has(handpose.FlagPositionValid) {
				continue
			}
			if err := cloud.Set(jp.Pose.Point(), jointData); err != nil {
				return err
			}
		}
	}
	for _, kp := range keypoints {
		if err := cloud.Set(kp, targetData); err != nil {
			return err
		}
	}

	return pointcloud.ToPCD(cloud, w, pointcloud.PCDAscii)
}
