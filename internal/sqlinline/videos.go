package sqlinline

const QUpsertVideo = `--sql 924d0600-e17a-4b8a-9654-a6c0bba972a0
insert into ai_video_history (
  id,
  mode,
  prompt,
  model,
  size,
  seconds,
  cost_details,
  status,
  progress,
  remix_of,
  job_created_at,
  storage_mode,
  updated_at
) values (
  $1::text,
  $2::video_mode,
  $3::text,
  $4::text,
  $5::text,
  $6::int,
  $7::jsonb,
  'processing',
  $8::int,
  nullif($9::text, ''),
  $10::timestamptz,
  $11::storage_mode,
  now()
)
on conflict (id) do update set
  mode = excluded.mode,
  prompt = excluded.prompt,
  model = excluded.model,
  size = excluded.size,
  seconds = excluded.seconds,
  progress = greatest(ai_video_history.progress, excluded.progress),
  remix_of = excluded.remix_of,
  updated_at = now();
`

const QUpdateVideoStatus = `--sql 7ba1641a-c3f0-487d-9e9e-39fba7865afe
update ai_video_history
set status = $2::video_status,
    progress = greatest(progress, $3::int),
    error = $4::text,
    updated_at = now()
where id = $1::text
  and status = 'processing';
`

const QMarkVideoCompleted = `--sql af3c8f15-8661-42b0-9ac0-8f18193a837b
update ai_video_history
set status = 'completed',
    progress = 100,
    error = null,
    video_url = $2::text,
    thumbnail_url = $3::text,
    spritesheet_url = $4::text,
    duration_ms = $5::bigint,
    storage_mode = $6::storage_mode,
    completed_at = $7::timestamptz,
    has_assets = true,
    mirror_claimed_at = null,
    mirror_error = null,
    updated_at = now()
where id = $1::text
  and status = 'processing';
`

const QClaimVideoMirror = `--sql 5d0c3e27-8f4b-4a6e-b1d9-2c7f60e8a413
update ai_video_history
set mirror_claimed_at = now()
where id = $1::text
  and status = 'processing'
  and (mirror_claimed_at is null
       or mirror_claimed_at < now() - ($2::int * interval '1 second'));
`

const QReleaseVideoMirror = `--sql c94f7b12-3e6a-4d58-9a0b-7e1d25f6c380
update ai_video_history
set mirror_claimed_at = null,
    mirror_error = $2::text,
    progress = 100,
    updated_at = now()
where id = $1::text
  and status = 'processing';
`

const QMarkVideoFailed = `--sql efc243cd-69df-4799-bfa3-4e4ff4f44c81
update ai_video_history
set status = 'failed',
    progress = 0,
    error = $2::text,
    updated_at = now()
where id = $1::text
  and status <> 'completed';
`

const QSelectVideoByID = `--sql 1811ab99-508a-4d9d-aa82-e07913fa4e41
select
  id,
  mode::text,
  prompt,
  model,
  size,
  seconds,
  remix_of,
  status::text,
  progress,
  error,
  cost_details,
  storage_mode::text,
  video_url,
  thumbnail_url,
  spritesheet_url,
  duration_ms,
  completed_at,
  has_assets,
  job_created_at,
  created_at,
  updated_at
from ai_video_history
where id = $1::text
limit 1;
`

const QListRecentVideos = `--sql b52e639b-58fe-4edf-8765-7c74bd650597
select
  id,
  mode::text,
  prompt,
  model,
  size,
  seconds,
  remix_of,
  status::text,
  progress,
  error,
  cost_details,
  storage_mode::text,
  video_url,
  thumbnail_url,
  spritesheet_url,
  duration_ms,
  completed_at,
  has_assets,
  job_created_at,
  created_at,
  updated_at
from ai_video_history
order by created_at desc
limit $1::int;
`

const QListVideosByStatus = `--sql a9868a62-4c8d-40c2-9028-ac5d81b4536b
select
  id,
  mode::text,
  prompt,
  model,
  size,
  seconds,
  remix_of,
  status::text,
  progress,
  error,
  cost_details,
  storage_mode::text,
  video_url,
  thumbnail_url,
  spritesheet_url,
  duration_ms,
  completed_at,
  has_assets,
  job_created_at,
  created_at,
  updated_at
from ai_video_history
where status = $1::video_status
order by updated_at asc
limit $2::int;
`

const QDeleteVideoByID = `--sql 741924bb-1c17-416d-8475-3f64226175a8
delete from ai_video_history
where id = $1::text;
`

const QDeleteAllVideos = `--sql 28ba45c2-6dd2-4d75-afc3-b5eb33da2631
delete from ai_video_history;
`
